package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/LdDl/fanfield"
	"github.com/LdDl/fanfield/httpapi"
	"github.com/gin-gonic/gin"
)

var (
	addr    = flag.String("addr", ":8080", "Address to listen on")
	dbFile  = flag.String("db", "fanfield.sqlite", "SQLite file keeping links and last selection")
	release = flag.Bool("release", false, "Run gin in release mode")
)

func main() {
	flag.Parse()

	if *release {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := fanfield.OpenSQLiteStore(*dbFile)
	if err != nil {
		log.Fatalf("Can't open database: %v", err)
	}
	defer store.Close()

	srv := httpapi.NewServer(store)
	r := gin.Default()
	srv.SetupRoutes(r)

	fmt.Printf("Listening on %s (database: %s)\n", *addr, *dbFile)
	fmt.Println("  - POST   /api/fanfield        - plan fan field and commit links")
	fmt.Println("  - GET    /api/links           - list links")
	fmt.Println("  - DELETE /api/links           - remove all links")
	fmt.Println("  - GET    /api/selection/:key  - get anchor/start/end")
	fmt.Println("  - PUT    /api/selection/:key  - set anchor/start/end")
	if err := r.Run(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
