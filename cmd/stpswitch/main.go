// Command stpswitch runs the spanning-tree bridge core against a YAML
// interface configuration (SPEC_FULL.md §4.10).
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/WuGodLittleBad/code-for-CI/config"
	"github.com/WuGodLittleBad/code-for-CI/hostnet"
	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/stp/server"
	"github.com/WuGodLittleBad/code-for-CI/util/clock"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
)

func main() {
	app := cli.NewApp()
	app.Name = "stpswitch"
	app.Usage = "spanning-tree bridge core"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to the bridge's YAML interface configuration",
			Value: "stpswitch.yaml",
		},
	}
	app.Action = runBridge
	app.Commands = []cli.Command{
		newDumpCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("stpswitch: %v", err)
		os.Exit(1)
	}
}

func buildBridge(c *cli.Context) (*server.Bridge, *config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, nil, err
	}

	ifaces, err := cfg.Interfaces(func(name string, mac net.HardwareAddr, ip iface.IP4) (iface.Sender, error) {
		return hostnet.NewSender(name, mac, ip)
	})
	if err != nil {
		return nil, nil, err
	}

	b, err := server.NewBridge(ifaces, cfg.Priority(), func() clock.Ticker { return clock.New(server.HelloPeriod) })
	if err != nil {
		return nil, nil, fmt.Errorf("stpswitch: %w", err)
	}
	return b, cfg, nil
}

func runBridge(c *cli.Context) error {
	b, cfg, err := buildBridge(c)
	if err != nil {
		return err
	}

	b.Start()
	log.Infof("stpswitch: %s running on %d interfaces", cfg.Name, len(b.Ports))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	<-sig

	fmt.Println(b.Shutdown())
	return nil
}

// newDumpCommand mirrors mospfd's dump subcommand: print each port's
// role and designated quadruple and exit, without starting the hello
// ticker.
func newDumpCommand() cli.Command {
	return cli.Command{
		Name:  "dump",
		Usage: "print each port's role and designated quadruple and exit",
		Action: func(c *cli.Context) error {
			b, _, err := buildBridge(c)
			if err != nil {
				return err
			}
			fmt.Print(b.Dump())
			return nil
		},
	}
}
