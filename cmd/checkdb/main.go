package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"paytrack/internal/app/dsn"
	"paytrack/internal/app/repository"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Сверка сохранённых статусов задолженностей с суммами платежей.
// С флагом -fix расхождения исправляются.
func main() {
	fix := flag.Bool("fix", false, "persist recomputed status and remaining amount")
	flag.Parse()

	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := repository.Open(dsnStr)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	repo := repository.NewWithDB(db)

	drifts, err := repo.RecomputeAll(*fix)
	if err != nil {
		log.Fatal("Status audit failed: ", err)
	}

	if len(drifts) == 0 {
		fmt.Println("All payable statuses match their payments")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAYABLE\tSTORED\tSTORED REMAINING\tDERIVED\tDERIVED REMAINING")
	for _, d := range drifts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			d.PayableID, d.StoredStatus, d.StoredRemaining, d.Derived.Status, d.Derived.RemainingAmount)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}

	if *fix {
		fmt.Printf("Fixed %d payables\n", len(drifts))
		return
	}
	fmt.Printf("%d payables drifted, run with -fix to repair\n", len(drifts))
	os.Exit(1)
}
