package main

import (
	"flag"
	"log"
	"strings"

	"github.com/trilytx/trilytx-backend/cmd"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Create the BigQuery log dataset and tables")
	shouldRunServer := flag.Bool("server", false, "Run the API server")
	question := flag.String("ask", "", "Answer a single question in the terminal")
	flag.Parse()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}
	if q := strings.TrimSpace(*question); q != "" {
		if err := cmd.RunAsk(q); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunServer {
		if err := cmd.RunServer(); err != nil {
			log.Fatal(err)
		}
	}
}
