package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"versehub/config"
	"versehub/internal/battle"
	"versehub/services"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "path to config file")
	rapperA := flag.String("a", "MC Turing", "first rapper")
	rapperB := flag.String("b", "DJ Lovelace", "second rapper")
	rounds := flag.Int("rounds", 0, "number of rounds (0 uses the configured default)")
	live := flag.Bool("live", false, "print verses as they stream instead of waiting for each to finish")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	generator, err := services.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize verse backend: %v", err)
	}

	registry := battle.NewRegistry()
	session := registry.Create(*rapperA, *rapperB, cfg.ClampRounds(*rounds))

	events, err := battle.NewRelay(session, generator).Stream(ctx)
	if err != nil {
		log.Fatalf("Failed to open battle stream: %v", err)
	}

	printed := 0
	for ev := range events {
		switch {
		case ev.Error != "":
			log.Fatalf("Battle failed: %s", ev.Error)
		case ev.Complete:
			if *live {
				fmt.Printf("%s\n\n    -- %s, round %d\n\n", ev.Verse[printed:], ev.Rapper, ev.Round)
				printed = 0
			} else {
				fmt.Printf("=== Round %d: %s ===\n%s\n\n", ev.Round, ev.Rapper, ev.Verse)
			}
		case *live:
			fmt.Print(ev.Verse[printed:])
			printed = len(ev.Verse)
		}
	}
}
