package main

import (
	"flag"
	"fmt"
	"net/netip"
	"os"

	"github.com/ipcheck/ipcheck/codegen"
	"github.com/ipcheck/ipcheck/component/filter"
	"github.com/ipcheck/ipcheck/config"
	C "github.com/ipcheck/ipcheck/constant"
	"github.com/ipcheck/ipcheck/hub"
	"github.com/ipcheck/ipcheck/log"
	"github.com/ipcheck/ipcheck/rule/provider"

	_ "go.uber.org/automaxprocs"
)

var (
	version    bool
	configFile string
	v4Path     string
	v6Path     string
	outPath    string
	encoding   string
)

func init() {
	flag.BoolVar(&version, "v", false, "show current version")
	flag.StringVar(&configFile, "f", "", "run the controller with the specified configuration file")
	flag.StringVar(&v4Path, "v4", "", "IPv4 CIDR csv path")
	flag.StringVar(&v6Path, "v6", "", "IPv6 CIDR csv path")
	flag.StringVar(&outPath, "o", "", "output artifact path")
	flag.StringVar(&encoding, "encoding", "fixed", "index encoding: fixed or wide")
	flag.Parse()
}

func main() {
	if version {
		fmt.Printf("ipcheck %s %s\n", C.Version, C.BuildTime)
		return
	}

	if outPath != "" {
		if err := compile(); err != nil {
			log.Fatalln("Compile error: %s", err.Error())
		}
		return
	}

	if configFile == "" {
		fmt.Fprintln(os.Stderr, "usage: ipcheck -v4 <ipv4 csv> -v6 <ipv6 csv> -o <output> | ipcheck -f <config>")
		os.Exit(1)
	}
	if err := serve(); err != nil {
		log.Fatalln("Start error: %s", err.Error())
	}
}

func compile() error {
	if v4Path == "" || v6Path == "" {
		return fmt.Errorf("both -v4 and -v6 csv paths are required")
	}
	enc, err := filter.ParseEncoding(encoding)
	if err != nil {
		return err
	}

	prefixes, err := loadCSV(v4Path)
	if err != nil {
		return err
	}
	v6Prefixes, err := loadCSV(v6Path)
	if err != nil {
		return err
	}
	prefixes = append(prefixes, v6Prefixes...)

	compiled, err := filter.New(prefixes, enc)
	if err != nil {
		return err
	}
	log.Infoln("Compiled %d prefixes into %d+%d nodes", len(prefixes),
		compiled.NodeCount(true), compiled.NodeCount(false))

	return codegen.RenderFile(outPath, compiled)
}

func loadCSV(path string) ([]netip.Prefix, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return provider.ParsePayload(buf, provider.CSV)
}

func serve() error {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	cfg, err := config.Parse(buf)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	for name, rp := range cfg.Providers {
		if err := rp.Initial(); err != nil {
			return fmt.Errorf("initial rule provider %s error: %w", name, err)
		}
		log.Infoln("Rule provider %s loaded, %d rules", name, rp.RuleCount())
	}

	return hub.New(cfg.Providers).Start(cfg.ExternalController)
}
