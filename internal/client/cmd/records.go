package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sijil-crm/internal/client"
	"sijil-crm/models"
)

type recordsClient struct{ serverURL *string }

func newRecordsCmd(serverURL *string) *cobra.Command {
	r := &recordsClient{serverURL: serverURL}
	cmd := &cobra.Command{Use: "records", Short: "Manage student records"}
	cmd.AddCommand(&cobra.Command{Use: "list", Short: "List all records", RunE: r.list})
	cmd.AddCommand(r.newAddCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "edit <id> <field=value> [field=value...]",
		Short: "Edit record fields and save the diff",
		Args:  cobra.MinimumNArgs(2),
		RunE:  r.edit,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete records by id",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.delete,
	})
	return cmd
}

func (r *recordsClient) list(cmd *cobra.Command, args []string) error {
	c := client.New(*r.serverURL)
	if err := c.Fetch(cmd.Context()); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Records())
}

func (r *recordsClient) newAddCmd() *cobra.Command {
	var rec struct {
		number, fullName, birthInfo, specialization, cycle, group string
		intermediary, diploma, note                               string
		fileAmount, payment1, payment2                            string
		paymentDate1, paymentDate2                                string
	}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create one record",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*r.serverURL)
			created, err := c.Create(cmd.Context(), models.Record{
				Number:         rec.number,
				FullName:       rec.fullName,
				BirthInfo:      rec.birthInfo,
				Specialization: rec.specialization,
				Cycle:          rec.cycle,
				Group:          rec.group,
				Intermediary:   rec.intermediary,
				Diploma:        rec.diploma,
				Note:           rec.note,
				FileAmount:     models.ParseAmount(rec.fileAmount),
				Payment1:       models.ParseAmount(rec.payment1),
				Payment2:       models.ParseAmount(rec.payment2),
				PaymentDate1:   rec.paymentDate1,
				PaymentDate2:   rec.paymentDate2,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(created)
		},
	}
	cmd.Flags().StringVar(&rec.number, "number", "", "Registration number")
	cmd.Flags().StringVar(&rec.fullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&rec.birthInfo, "birth-info", "", "Birth date and place")
	cmd.Flags().StringVar(&rec.specialization, "specialization", "", "Specialization")
	cmd.Flags().StringVar(&rec.cycle, "cycle", "", "Cycle")
	cmd.Flags().StringVar(&rec.group, "group", "", "Group")
	cmd.Flags().StringVar(&rec.intermediary, "intermediary", "", "Intermediary")
	cmd.Flags().StringVar(&rec.diploma, "diploma", "", "Diploma")
	cmd.Flags().StringVar(&rec.note, "note", "", "Note")
	cmd.Flags().StringVar(&rec.fileAmount, "file-amount", "", "File amount")
	cmd.Flags().StringVar(&rec.payment1, "payment1", "", "First installment")
	cmd.Flags().StringVar(&rec.payment2, "payment2", "", "Second installment")
	cmd.Flags().StringVar(&rec.paymentDate1, "payment1-date", "", "First installment date")
	cmd.Flags().StringVar(&rec.paymentDate2, "payment2-date", "", "Second installment date")
	return cmd
}

func (r *recordsClient) edit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	c := client.New(*r.serverURL)
	if err := c.Fetch(cmd.Context()); err != nil {
		return err
	}
	for _, pair := range args[1:] {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", pair)
		}
		if err := c.SetField(uint(id), key, value); err != nil {
			return err
		}
	}

	saved, err := c.Save(cmd.Context())
	if err != nil {
		return err
	}
	if saved == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d record(s)\n", saved)
	return nil
}

func (r *recordsClient) delete(cmd *cobra.Command, args []string) error {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, uint(id))
	}

	c := client.New(*r.serverURL)
	if err := c.Delete(cmd.Context(), ids); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s)\n", len(ids))
	return nil
}
