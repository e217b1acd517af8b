package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"bloodbridge/cmd/web/server"
	"bloodbridge/pkg/config"
	"bloodbridge/pkg/constants"
	"bloodbridge/pkg/logger"
)

func main() {
	fmt.Printf("Blood Bridge admin console -- v%s.%s.%s\n\n", constants.Version, runtime.GOOS, runtime.GOARCH)

	c, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Component: "web",
		Level:     logger.ParseLevel(c.Log.Level),
		Format:    c.Log.Format,
	})

	s := server.NewServer(c, log)

	log.Info().Str("backend", c.Remote.BaseURL).Msg("starting server at :" + strconv.Itoa(c.Web.Port))
	if err := s.Server.ListenAndServe(); err != nil {
		log.Error().Err(err).Msg("failed to start web server")
		os.Exit(1)
	}
}
