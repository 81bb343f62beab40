// Command mospfd runs the mOSPF router core against a YAML interface
// configuration (SPEC_FULL.md §4.10).
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/WuGodLittleBad/code-for-CI/config"
	"github.com/WuGodLittleBad/code-for-CI/hostnet"
	"github.com/WuGodLittleBad/code-for-CI/iface"
	"github.com/WuGodLittleBad/code-for-CI/protocols/mospf/server"
	"github.com/WuGodLittleBad/code-for-CI/util/clock"
	"github.com/WuGodLittleBad/code-for-CI/util/log"
)

func main() {
	app := cli.NewApp()
	app.Name = "mospfd"
	app.Usage = "minimal OSPF router core"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to the router's YAML interface configuration",
			Value: "mospfd.yaml",
		},
	}
	app.Action = runRouter
	app.Commands = []cli.Command{
		newDumpCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("mospfd: %v", err)
		os.Exit(1)
	}
}

func buildInstance(c *cli.Context) (*server.Instance, *config.Config, error) {
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

	inst := server.NewInstance(ifaces, cfg.AreaID, func() clock.Ticker { return clock.New(time.Second) })
	return inst, cfg, nil
}

func runRouter(c *cli.Context) error {
	inst, cfg, err := buildInstance(c)
	if err != nil {
		return err
	}

	inst.Start()
	log.Infof("mospfd: %s running as router %s area %d", cfg.Name, inst.RouterID, inst.AreaID)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	<-sig

	inst.Stop()
	fmt.Println(inst.Rtable.String())
	return nil
}

// newDumpCommand mirrors bio-rd's riscli dump-loc-rib subcommand: build
// the router from the configuration, print its routing table and exit,
// without serving traffic. The instance has neither originated nor
// received an LSU at that point, so no SPF pass has run and the printed
// table has no rows; the LSDB is not printed.
func newDumpCommand() cli.Command {
	return cli.Command{
		Name:  "dump",
		Usage: "print the routing table of the freshly configured router (no SPF has run yet, so it is empty) and exit",
		Action: func(c *cli.Context) error {
			inst, _, err := buildInstance(c)
			if err != nil {
				return err
			}
			fmt.Print(inst.Rtable.String())
			return nil
		},
	}
}
