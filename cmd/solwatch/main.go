package main

import (
	"encoding/json"
	"fmt"
	"os"

	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Load config
	confPath, _ := os.LookupEnv("SOLWATCH_CONF")
	config, err := solwatch.LoadConfig(confPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}

	// define root command
	rootCmd := &cobra.Command{
		Use: "solwatch",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
			os.Exit(0)
		},
	}

	// Add flags for configuration overrides
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.PubBind, "webapi-bind", config.WebAPI.PubBind, "Public API bind")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.PubPort, "webapi-port", config.WebAPI.PubPort, "Public API port")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.AdminBind, "admin-bind", config.WebAPI.AdminBind, "Admin API bind")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.AdminPort, "admin-port", config.WebAPI.AdminPort, "Admin API port")
	rootCmd.PersistentFlags().IntVar(&config.Watcher.PollSeconds, "poll-seconds", config.Watcher.PollSeconds, "Seconds between watch list polls")
	rootCmd.PersistentFlags().IntVar(&config.Watcher.MaxInFlight, "max-in-flight", config.Watcher.MaxInFlight, "Max chain queries in flight per tick")
	rootCmd.PersistentFlags().BoolVar(&config.Watcher.RetryFailed, "retry-failed", config.Watcher.RetryFailed, "Keep watching links after a failed validation")
	rootCmd.PersistentFlags().StringVar(&config.ZMQ.Bind, "zmq-bind", config.ZMQ.Bind, "ZMQ PUB socket address")
	// Bind flags to config fields
	viper.BindPFlags(rootCmd.PersistentFlags())

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the solwatch server",
		Run: func(cmd *cobra.Command, args []string) {
			Server(config)
		},
	}

	configCmd := &cobra.Command{
		Use:   "showconf",
		Short: "Print the config state and exit",
		Run: func(cmd *cobra.Command, args []string) {
			o, _ := json.MarshalIndent(config, ">", " ")
			fmt.Println(string(o))
			os.Exit(0)
		},
	}

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(configCmd)

	// Execute the Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
	}
}
