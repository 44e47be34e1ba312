package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vmcatalog/adapters/azureretail"
	"vmcatalog/adapters/ec2catalog"
	"vmcatalog/adapters/export"
	"vmcatalog/adapters/httpclient"
	"vmcatalog/core/benchmark"
	"vmcatalog/internal/config"
	"vmcatalog/internal/logging"
)

var (
	limitFlag  int
	outputFlag string
)

// collectCmd fetches every source and exports the workbook
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch pricing and capability data and export the workbook",
	Long: `Fetches Azure VM retail pricing (paginated), the EC2 instance
capability catalog (mirrored endpoints, first usable wins) and the
built-in CoreMark reference table, then writes one spreadsheet with a
sheet per collection. A source that fails simply contributes fewer
records; it never aborts the other sources.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().IntVar(&limitFlag, "limit", 0, "max pricing records to collect (overrides config)")
	collectCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "workbook output path (overrides config)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if limitFlag > 0 {
		cfg.Azure.RecordLimit = limitFlag
	}
	if outputFlag != "" {
		cfg.Output.WorkbookPath = outputFlag
	}

	session, err := httpclient.NewSession(httpclient.PolicyFromConfig(cfg.Session))
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	sp := startSpinner("Fetching Azure VM retail pricing")
	azure := azureretail.NewClient(session, azureretail.ConfigFrom(cfg.Azure))
	pricing := azure.FetchVMPricing(ctx, cfg.Azure.RecordLimit)
	stopSpinner(sp, fmt.Sprintf("Azure VM records collected: %s (%d pages)",
		humanize.Comma(int64(len(pricing.Records))), pricing.Pages))
	if pricing.Err != nil {
		logging.Warn("azure pricing fetch degraded, keeping partial results",
			zap.Int("records", len(pricing.Records)), zap.Error(pricing.Err))
	}

	sp = startSpinner("Fetching AWS EC2 instance data")
	aws := ec2catalog.NewClient(session, ec2catalog.ConfigFrom(cfg.AWS))
	instances := aws.FetchInstances(ctx)
	stopSpinner(sp, fmt.Sprintf("AWS instances collected: %s",
		humanize.Comma(int64(len(instances.Records)))))
	if len(instances.Records) == 0 {
		logging.Warn("no instance catalog data available",
			zap.Int("mirrors_tried", len(instances.Attempts)))
	}

	benchmarks := benchmark.Samples()
	fmt.Printf("CoreMark entries: %d\n", len(benchmarks))

	writer := export.NewWriter(cfg.Output)
	artifact, err := writer.Export([]export.Collection{
		export.PricingCollection("Azure_VMs", pricing.Records),
		export.InstanceCollection("AWS_VMs", instances.Records),
		export.BenchmarkCollection("CoreMark_Scores", benchmarks),
	})
	if err != nil {
		return err
	}

	switch {
	case artifact.WorkbookPath != "":
		fmt.Printf("Output file: %s\n", artifact.WorkbookPath)
	case len(artifact.CSVPaths) > 0:
		fmt.Printf("Workbook write failed; CSV backups saved: %s\n",
			strings.Join(artifact.CSVPaths, ", "))
	default:
		fmt.Println("No data collected; nothing exported.")
	}
	return nil
}

func startSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = " " + msg + " ..."
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner, finalMsg string) {
	s.FinalMSG = finalMsg + "\n"
	s.Stop()
}
