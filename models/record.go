// sijil-crm/models/record.go

package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Amount is a monetary value with the lenient coercion the clients rely on:
// a JSON number, a numeric string, null or plain garbage all decode without
// error, anything non-numeric becomes 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = ParseAmount(string(data))
	return nil
}

// ParseAmount converts free-form input to an Amount, falling back to 0 on
// anything that does not parse as a finite number.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" || s == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Amount(v)
}

// Record is one student's financial/administrative row.
//
// Remaining is derived on every save and must never be trusted from a client;
// see BeforeSave. ColumnColors is not stored on the record: the per-field
// display colors live in the column_colors table and are attached to each
// record at serialization time so the wire shape stays the same for every row.
type Record struct {
	ID             uint     `gorm:"primarykey" json:"id"`
	Number         string   `json:"number"`
	FullName       string   `json:"fullName"`
	BirthInfo      string   `json:"birthInfo"`
	Specialization string   `json:"specialization"`
	Cycle          string   `json:"cycle"`
	Group          string   `json:"group"`
	FileAmount     Amount   `json:"fileAmount" gorm:"default:0"`
	Intermediary   string   `json:"intermediary"`
	Payment1       Amount   `json:"payment1" gorm:"default:0"`
	PaymentDate1   string   `json:"paymentDate1"`
	Payment2       Amount   `json:"payment2" gorm:"default:0"`
	PaymentDate2   string   `json:"paymentDate2"`
	Remaining      Amount   `json:"remaining" gorm:"default:0"`
	Diploma        string   `json:"diploma"`
	Note           string   `json:"note"`
	RowColor       string   `json:"rowColor" gorm:"size:32"`
	ColumnColors   ColorMap `json:"columnColors" gorm:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Recalc reestablishes the invariant remaining = fileAmount - (payment1 + payment2).
func (r *Record) Recalc() {
	r.Remaining = r.FileAmount - (r.Payment1 + r.Payment2)
}

// BeforeSave recomputes the derived balance on every create and update. This
// is the authoritative calculation; whatever a client sent for remaining is
// overwritten here.
func (r *Record) BeforeSave(tx *gorm.DB) error {
	r.Recalc()
	return nil
}
