package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hrms/internal/domain/employee"
	employeestore "hrms/internal/domain/employee/memstore"
	"hrms/internal/domain/exchange"
)

type importOptions struct {
	format string
	apply  bool
	strict bool
}

func newImportCmd(rt *runtime) *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Upsert employees from a CSV or XLSX file (dry run unless --apply)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), rt, cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "", "File format: csv or xlsx (default: from the file extension)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Write to the database (default is a dry run against an empty in-memory store)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with status 3 when any row fails")
	return cmd
}

func fileFormat(explicit, path string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "":
		return exchange.DetectFormat(path, ""), nil
	case exchange.FormatCSV:
		return exchange.FormatCSV, nil
	case exchange.FormatXLSX:
		return exchange.FormatXLSX, nil
	default:
		return "", withCode(exitUsage, fmt.Errorf("unsupported --format %q", explicit))
	}
}

func runImport(ctx context.Context, rt *runtime, out io.Writer, path string, opts importOptions) error {
	format, err := fileFormat(opts.format, path)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return withCode(exitUsage, err)
	}
	defer file.Close()

	var store employee.StoreAPI = employeestore.New()
	if opts.apply {
		pool, err := rt.connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = employee.NewStore(pool)
	}
	employees := employee.NewService(store, employee.Options{ManagerPolicy: rt.cfg.ManagerAmbiguity}, rt.logger)
	result, err := exchange.NewService(employees, nil, rt.logger).Import(ctx, file, format)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !opts.apply {
		rt.logger.Info("dry run, nothing was written", "file", path, "valid", result.Created+result.Updated, "failed", len(result.Errors))
	}
	if opts.strict && len(result.Errors) > 0 {
		return withCode(exitRows, fmt.Errorf("%d rows failed", len(result.Errors)))
	}
	return nil
}

type exportOptions struct {
	format string
	ids    []string
}

func newExportCmd(rt *runtime) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Write employees to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := fileFormat(opts.format, args[0])
			if err != nil {
				return err
			}
			pool, err := rt.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			employees := employee.NewService(employee.NewStore(pool), employee.Options{}, rt.logger)
			return runExport(cmd.Context(), rt, exchange.NewService(employees, nil, rt.logger), cmd.OutOrStdout(), args[0], format, opts.ids)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "", "File format: csv or xlsx (default: from the file extension)")
	cmd.Flags().StringSliceVar(&opts.ids, "ids", nil, "Export only these employee ids")
	return cmd
}

func runExport(ctx context.Context, rt *runtime, svc *exchange.Service, stdout io.Writer, target, format string, ids []string) error {
	var buf bytes.Buffer
	rows, err := svc.Export(ctx, &buf, format, ids)
	if err != nil {
		return err
	}
	if target == "-" {
		_, err = buf.WriteTo(stdout)
		return err
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o600); err != nil {
		return err
	}
	rt.logger.Info("export written", "file", target, "format", format, "rows", rows)
	return nil
}
