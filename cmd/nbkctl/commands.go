package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbkdev/control-center/internal/adapters/cli"
	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/expiry"
	"github.com/nbkdev/control-center/internal/infrastructure/export/xlsx"
	"github.com/nbkdev/control-center/internal/infrastructure/storage/localfs"
)

const (
	reportInvoices  = "invoices"
	reportAttention = "attention"
)

func (c *app) attentionCmd() *cobra.Command {
	var (
		asOf  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "attention",
		Short: "Show the ranked attention feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(ctx context.Context, sess *session) error {
				day, err := parseAsOf(asOf, sess.Location)
				if err != nil {
					return err
				}
				snap, err := sess.Attention.Snapshot(ctx, day)
				if err != nil {
					return fmt.Errorf("build attention feed: %w", err)
				}
				return cli.RenderAttention(cmd.OutOrStdout(), *snap, limit)
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many items")
	return cmd
}

func (c *app) vitalsCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Show pending payments, revenue this month and the 30-day expense horizon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(ctx context.Context, sess *session) error {
				day, err := parseAsOf(asOf, sess.Location)
				if err != nil {
					return err
				}
				snap, err := sess.Attention.Snapshot(ctx, day)
				if err != nil {
					return fmt.Errorf("compute vitals: %w", err)
				}
				return cli.RenderVitals(cmd.OutOrStdout(), snap.AsOf, snap.Vitals)
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this day (YYYY-MM-DD)")
	return cmd
}

func (c *app) remindCmd() *cobra.Command {
	var (
		asOf string
		ack  bool
	)
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Show the next renewal reminder not yet seen today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(ctx context.Context, sess *session) error {
				day, err := parseAsOf(asOf, sess.Location)
				if err != nil {
					return err
				}
				next, err := sess.Reminders.Next(ctx, sess.DeviceID, day)
				if err != nil {
					return fmt.Errorf("next reminder: %w", err)
				}
				cli.RenderReminder(cmd.OutOrStdout(), next)
				if next == nil || !ack {
					return nil
				}
				if err := sess.Reminders.MarkShown(ctx, sess.DeviceID, next.Key, next.Day); err != nil {
					return fmt.Errorf("acknowledge reminder: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("acknowledged"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&ack, "ack", false, "mark the reminder as shown for today")
	return cmd
}

func (c *app) exportCmd() *cobra.Command {
	var (
		out  string
		asOf string
	)
	cmd := &cobra.Command{
		Use:       "export {invoices|attention}",
		Short:     "Write a report workbook (.xlsx)",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{reportInvoices, reportAttention},
		RunE: func(cmd *cobra.Command, args []string) error {
			report := args[0]
			return c.withSession(cmd, func(ctx context.Context, sess *session) error {
				day, err := parseAsOf(asOf, sess.Location)
				if err != nil {
					return err
				}

				var buf bytes.Buffer
				switch report {
				case reportInvoices:
					err = writeInvoices(ctx, sess, &buf)
				case reportAttention:
					err = writeAttention(ctx, sess, day, &buf)
				}
				if err != nil {
					return fmt.Errorf("export %s: %w", report, err)
				}

				path := out
				if strings.TrimSpace(path) == "" {
					stamp := day
					if stamp.IsZero() {
						stamp = sess.Attention.Today()
					}
					path = filepath.Join(sess.ExportPath, exportFilename(report, stamp))
				}
				if err := saveExport(ctx, path, &buf); err != nil {
					return fmt.Errorf("save export: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("wrote "+path))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <export path>/<report>-YYYYMMDD.xlsx)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate the attention report as of this day (YYYY-MM-DD)")
	return cmd
}

func writeInvoices(ctx context.Context, sess *session, buf *bytes.Buffer) error {
	invoices, err := sess.Invoices.List(ctx)
	if err != nil {
		return err
	}
	branding, err := sess.Branding.Get(ctx)
	if domain.IsKind(err, domain.ErrNotFound) {
		branding, err = nil, nil
	}
	if err != nil {
		return err
	}
	return xlsx.WriteInvoices(buf, invoices, branding)
}

func writeAttention(ctx context.Context, sess *session, day time.Time, buf *bytes.Buffer) error {
	snap, err := sess.Attention.Snapshot(ctx, day)
	if err != nil {
		return err
	}
	return xlsx.WriteAttention(buf, *snap)
}

func saveExport(ctx context.Context, path string, data io.Reader) error {
	storage, err := localfs.New(filepath.Dir(path))
	if err != nil {
		return err
	}
	return storage.Save(ctx, filepath.Base(path), data)
}

func exportFilename(report string, day time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", report, day.Format("20060102"))
}

func (c *app) statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the computed status of a single record",
	}

	var asOf string
	sub := &cobra.Command{
		Use:   "subscription ID",
		Short: "Show an AI-tool subscription's renewal status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, sess *session) error {
				day, err := parseAsOf(asOf, sess.Location)
				if err != nil {
					return err
				}
				if day.IsZero() {
					day = sess.Attention.Today()
				}
				record, err := sess.Subscriptions.GetByID(ctx, args[0])
				if err != nil {
					return fmt.Errorf("load subscription %s: %w", args[0], err)
				}
				status := expiry.ComputeSubscriptionStatus(record.ManualStatus, record.CancelByDate, calendar.Day(day))
				cli.RenderSubscriptionStatus(cmd.OutOrStdout(), *record, status)
				return nil
			})
		},
	}
	sub.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this day (YYYY-MM-DD)")
	cmd.AddCommand(sub)
	return cmd
}
