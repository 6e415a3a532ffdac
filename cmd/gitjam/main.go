package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gitjam/internal/engine"
)

func main() {
	contributions := flag.Int("contributions", 847, "contribution count to turn into music")
	streak := flag.Int("streak", 0, "current streak in days")
	flag.Parse()

	// Environment overrides, for running without flags.
	if s := os.Getenv("GITJAM_CONTRIBUTIONS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			*contributions = v
		}
	}

	e := engine.New(engine.Config{
		Contributions: *contributions,
		StreakDays:    *streak,
	})
	defer e.Destroy()

	genre := e.CurrentGenre().Info()
	energy := e.CurrentEnergy().Info()
	log.Printf("%d contributions -> %d BPM %s %s", *contributions, e.CurrentBPM(), genre.Glyph, genre.Label)
	log.Printf("energy: %s %s — %s (%s)", energy.Glyph, energy.Label, energy.Desc, energy.Mood)

	e.Play()
	if !e.IsPlaying() {
		log.Fatal("no audio device available")
	}
	log.Println("playing; ctrl-c to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	e.Stop()
	log.Println("stopped")
}
