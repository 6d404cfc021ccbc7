package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the matching engine as REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	deps := server.Deps{
		Extractor: a.extractor,
		Scorer:    a.scorer,
		Analyzer:  a.analyzer,
		Ranker:    a.ranker,
		Assembler: a.assembler,
	}
	if a.monitor != nil {
		deps.Monitor = a.monitor
	}

	srv := server.New(server.Config{
		Port:      a.cfg.Server.Port,
		RateLimit: a.cfg.RateLimit.Limits(),
	}, deps, a.log)

	return srv.Start()
}
