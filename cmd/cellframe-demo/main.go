// Command cellframe-demo shows the frame loop, input state and both drawing
// modes on any registered backend.
//
//	cellframe-demo -backend tcell -fps 60 -debug
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lixenwraith/cellframe/config"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/input"
	_ "github.com/lixenwraith/cellframe/terminal"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "cellframe-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logDir = cfg.LogDir
	if f := setupLogging(cfg.Debug); f != nil {
		defer f.Close()
	}

	km := defaultKeymap()
	if cfg.KeymapPath != "" {
		user, err := input.LoadKeymapFile(cfg.KeymapPath)
		if err != nil {
			return err
		}
		km.Merge(user)
	}

	log.Printf("starting backend %s at %d fps", cfg.Backend, cfg.FPS)
	err = engine.Run(cfg.Backend, cfg.Options(), newDemo(km).Run)
	log.Printf("backend %s stopped: %v", cfg.Backend, err)
	return err
}
