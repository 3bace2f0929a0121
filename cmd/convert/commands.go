package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"convertapi/internal/convert"
	"convertapi/internal/logging"
	"convertapi/internal/model"
	"convertapi/internal/pdfkit"
	"convertapi/internal/service"
	"convertapi/internal/storage"
)

type options struct {
	workDir string
	outDir  string
}

// app is the offline wiring: local blob store, no catalog.
type app struct {
	uploads service.UploadService
	convert service.ConvertService
	pdf     service.PDFService
	outDir  string
	cleanup func()
}

// logObserver reports each conversion as a JSON line.
type logObserver struct {
	logger *logging.Logger
}

func (o logObserver) ObserveConversion(format, outcome string) {
	o.logger.Info("conversion", map[string]any{"format": format, "outcome": outcome})
}

func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	dir := opts.workDir
	cleanup := func() {}
	if dir == "" {
		tmp, err := os.MkdirTemp("", "convert-")
		if err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
		dir = tmp
		cleanup = func() { _ = os.RemoveAll(tmp) }
	}

	store, err := storage.NewLocal(dir)
	if err != nil {
		cleanup()
		return nil, err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		cleanup()
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), time.UTC)
	uploads := service.NewUploadService(store, nil, 0)
	return &app{
		uploads: uploads,
		convert: service.NewConvertService(uploads, convert.Default(), logObserver{logger: logger}),
		pdf:     service.NewPDFService(uploads, pdfkit.New()),
		outDir:  opts.outDir,
		cleanup: cleanup,
	}, nil
}

// ingest copies a local file into the blob store.
func (a *app) ingest(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	size := int64(-1)
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	stored, err := a.uploads.Save(ctx, service.Upload{Reader: f, Name: filepath.Base(path), Size: size})
	if err != nil {
		return "", err
	}
	return stored.Path, nil
}

func (a *app) write(w io.Writer, name string, data []byte) error {
	dst := filepath.Join(a.outDir, storage.SafeName(name))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(w, dst)
	return nil
}

func (a *app) writeResult(w io.Writer, res *model.ConversionResult) error {
	if res.Stub {
		fmt.Fprintf(w, "note: %s output is a renamed copy of the input\n", res.Format)
	}
	return a.write(w, res.DownloadName, res.Content)
}

func formatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List conversion targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FORMAT\tEXTENSION\tINPUT\tSTUB")
			for _, f := range convert.Default().Formats() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", f.Format, f.Extension, f.Input, f.Stub)
			}
			return tw.Flush()
		},
	}
}

func toCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "to [format] [file]",
		Short: "Convert a file to the given format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			format := model.Format(strings.ToLower(args[0]))
			if !a.convert.Supports(format) {
				return fmt.Errorf("unsupported target format: %s", format)
			}

			ctx := cmd.Context()
			in, err := a.ingest(ctx, args[1])
			if err != nil {
				return err
			}
			res, err := a.convert.Convert(ctx, in, format)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), res)
		},
	}
}

func mergeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "merge [file...]",
		Short: "Merge PDFs in argument order into merged.pdf",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx := cmd.Context()
			paths := make([]string, 0, len(args))
			for _, p := range args {
				in, err := a.ingest(ctx, p)
				if err != nil {
					return err
				}
				paths = append(paths, in)
			}

			res, err := a.pdf.Merge(ctx, paths)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), res)
		},
	}
}

func splitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "split [file]",
		Short: "Split a PDF into split_0.pdf .. split_n.pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx := cmd.Context()
			in, err := a.ingest(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := a.pdf.Split(ctx, in)
			if err != nil {
				return err
			}
			for _, f := range res.Files {
				data, err := a.uploads.Read(ctx, f.Path)
				if err != nil {
					return err
				}
				if err := a.write(cmd.OutOrStdout(), f.Name, data); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func encryptCmd(opts *options) *cobra.Command {
	var passphrase string
	cmd := &cobra.Command{
		Use:   "encrypt [file]",
		Short: "Password-protect a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			ctx := cmd.Context()
			in, err := a.ingest(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := a.pdf.Encrypt(ctx, in, passphrase)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "user and owner password (may be empty)")
	return cmd
}
