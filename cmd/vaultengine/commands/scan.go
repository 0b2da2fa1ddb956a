package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arkan-labs/vaultengine/internal/health"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the vault and print a one-shot health report as JSON",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

type scanReport struct {
	Score       int                 `json:"score"`
	NodeCount   int                 `json:"nodeCount"`
	EdgeCount   int                 `json:"edgeCount"`
	BrokenLinks []health.BrokenLink `json:"brokenLinks"`
	OrphanPaths []string            `json:"orphanPaths"`
	Hubs        []health.HubEntry   `json:"hubs"`
}

func runScan(cmd *cobra.Command, args []string) error {
	log := newLogger()
	sess, err := openSession(log)
	if err != nil {
		return err
	}
	ctx := context.Background()

	mgr, err := sess.ActiveManager(ctx)
	if err != nil {
		return err
	}

	g := mgr.Graph()
	allPaths := g.AllPaths()
	stats := g.Stats()

	report := scanReport{
		Score:       health.Score(g, allPaths, mgr.Config()),
		NodeCount:   stats.NodeCount,
		EdgeCount:   stats.EdgeCount,
		BrokenLinks: health.BrokenLinks(g, g.Stems(), mgr.Config()),
		OrphanPaths: health.OrphanedNotes(g),
		Hubs:        health.Hubs(g, allPaths, 5),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
