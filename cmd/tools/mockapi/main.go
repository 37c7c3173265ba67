// Command mockapi serves an in-memory version of the products/users REST API
// for local development of the web front-end.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	addr := flag.String("addr", ":8000", "Listen address")
	empty := flag.Bool("empty", false, "Start without sample data")
	flag.Parse()

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.DebugMode)
	}

	db := newDB()
	if !*empty {
		db.seed()
	}

	log.Printf("mock API listening on %s", *addr)
	if err := newRouter(db).Run(*addr); err != nil {
		log.Fatalf("mock API failed: %v", err)
	}
}
