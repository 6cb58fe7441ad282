package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/harnesskit/packages/codec"
	"github.com/abdul-hamid-achik/harnesskit/packages/diag"
	"github.com/abdul-hamid-achik/harnesskit/packages/pipeline"
	"github.com/abdul-hamid-achik/harnesskit/packages/profile"
	"github.com/abdul-hamid-achik/harnesskit/packages/transport"
)

var sendCmd = &cobra.Command{
	Use:   "send <method> <path>",
	Short: "Send one request through the execution pipeline",
	Long: `Send a single HTTP request over a provisioned transport and print the
outcome.

Examples:
  harnesskit send GET /api/users --base https://staging.example.com
  harnesskit send POST /api/users --base https://staging.example.com --data '{"name":"x"}'
  harnesskit send GET /api/users/7 --profile staging.yaml --extract name
  harnesskit send GET /api/users --profile staging.yaml --artifacts ./out`,
	Args: cobra.ExactArgs(2),
	RunE: sendCommand,
}

var (
	baseFlag      string
	profileFlag   string
	headerFlags   []string
	dataFlag      string
	timeoutFlag   time.Duration
	extractFlag   string
	artifactsFlag string
	noColorFlag   bool
	insecureFlag  bool
)

func init() {
	sendCmd.Flags().StringVarP(&baseFlag, "base", "b", "", "base address (absolute http/https URL)")
	sendCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "profile file (YAML)")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "request header, key:value (repeatable)")
	sendCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "request body")
	sendCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "per-call deadline (e.g. 30s)")
	sendCmd.Flags().StringVar(&extractFlag, "extract", "", "print only the value at this JSON path")
	sendCmd.Flags().StringVar(&artifactsFlag, "artifacts", "", "capture response artifacts into this directory")
	sendCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	sendCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "skip TLS certificate validation")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	if noColorFlag {
		color.NoColor = true
	}

	handle, prof, err := provisionHandle()
	if err != nil {
		return err
	}

	sink := diag.NewConsoleSink(cmd.ErrOrStderr())
	opts := []pipeline.Option{pipeline.WithSink(sink)}

	artifactsDir := artifactsFlag
	captureEnabled := artifactsFlag != ""
	if prof != nil && prof.Diagnostics != nil && prof.Diagnostics.Enabled {
		captureEnabled = true
		if artifactsDir == "" {
			artifactsDir = prof.Diagnostics.Dir
		}
	}
	if captureEnabled {
		opts = append(opts, pipeline.WithDiagnostics(diag.NewRecorder(artifactsDir, sink)))
	}

	p := pipeline.New(handle, opts...)

	req := pipeline.NewRequest(strings.ToUpper(args[0]), args[1])
	for _, h := range headerFlags {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("malformed header %q, want key:value", h)
		}
		req.SetHeader(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if dataFlag != "" {
		req.SetBody(strings.NewReader(dataFlag))
		if req.Headers["Content-Type"] == "" {
			req.SetHeader("Content-Type", "application/json")
		}
	}

	ctx := context.Background()
	if timeoutFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeoutFlag)
		defer cancel()
	}

	resp, err := p.Raw(ctx, req)
	if err != nil {
		return err
	}

	if err := printResponse(cmd, resp); err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("request failed with status %s", resp.Status)
	}
	return nil
}

func provisionHandle() (*transport.Handle, *profile.Profile, error) {
	var opts []transport.Option
	if insecureFlag {
		opts = append(opts, transport.WithValidateSSL(false))
	}

	if profileFlag != "" {
		prof, err := profile.Load(profileFlag)
		if err != nil {
			return nil, nil, err
		}
		if baseFlag != "" {
			prof.BaseAddress = baseFlag
		}
		handle, err := prof.Provision(opts...)
		return handle, prof, err
	}

	if baseFlag == "" {
		return nil, nil, errors.New("either --base or --profile is required")
	}
	handle, err := transport.Provision(baseFlag, transport.NoCredentials(), opts...)
	return handle, nil, err
}

func printResponse(cmd *cobra.Command, resp *pipeline.Response) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	status := green(resp.Status)
	if !resp.IsSuccess() {
		status = red(resp.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%dms)\n", status, resp.DurationMs())

	if extractFlag != "" {
		value, ok := codec.Extract(resp.Body, extractFlag)
		if !ok {
			return fmt.Errorf("no value at path %q", extractFlag)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", value)
		return nil
	}

	if len(resp.Body) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), resp.BodyString())
	}
	return nil
}
