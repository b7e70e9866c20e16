package solwatch

import (
	"github.com/jinzhu/configor"
)

type Config struct {
	Solwatch struct {
		// record-store connection string, eg. a sqlite file path.
		// Must be supplied; startup aborts without it.
		DBFile string `env:"SOLWATCH_DB" required:"true"`
	}

	// RPC endpoint per Solana cluster
	Networks map[string]struct {
		RPCAddr string
	}

	Watcher struct {
		// seconds between polls of each network's watch list
		PollSeconds int `default:"7"`
		// max chain queries in flight per tick
		MaxInFlight int `default:"16"`
		// keep links watched after a failed validation instead of
		// dropping them
		RetryFailed bool `default:"false"`
	}

	WebAPI struct {
		AdminBind string `default:"localhost"`
		AdminPort string `default:"3030"`
		PubBind   string `default:""`
		PubPort   string `default:"3000"`
	}

	Loggers map[string]struct {
		Path  string
		Types []string
	}

	ZMQ struct {
		// PUB socket address, eg. tcp://*:5555. Empty disables the emitter.
		Bind string
	}
}

// default public RPC endpoint per cluster, when not configured
var defaultRPCAddr = map[Network]string{
	Mainnet: "https://api.mainnet-beta.solana.com",
	Testnet: "https://api.testnet.solana.com",
	Devnet:  "https://api.devnet.solana.com",
}

// RPCAddr returns the RPC endpoint for a cluster.
func (c Config) RPCAddr(n Network) string {
	if net, ok := c.Networks[string(n)]; ok && net.RPCAddr != "" {
		return net.RPCAddr
	}
	return defaultRPCAddr[n]
}

// PollPeriod in whole seconds; the nominal period is 7s.
func (c Config) PollPeriod() int {
	if c.Watcher.PollSeconds <= 0 {
		return 7
	}
	return c.Watcher.PollSeconds
}

func LoadConfig(confPath string) (Config, error) {
	c := Config{}
	var err error
	if confPath == "" {
		err = configor.Load(&c)
	} else {
		err = configor.Load(&c, confPath)
	}
	return c, err
}

// TestConfig returns a config suitable for unit tests.
func TestConfig() Config {
	c := Config{}
	c.Solwatch.DBFile = ":memory:"
	c.Watcher.PollSeconds = 7
	c.Watcher.MaxInFlight = 16
	return c
}
