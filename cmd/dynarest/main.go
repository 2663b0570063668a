/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command dynarest serves REST resources for the models declared in a set
// of YAML files, one DynamoDB table per model.
//
// AWS credentials come from AWS_ACCESS_KEY, AWS_SECRET_KEY and AWS_REGION,
// loaded from the environment or a .env file. Each model is served from
// the table named after the model and mounted at /<model-name> lowercased.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/suparena/dynarest"
	"github.com/suparena/dynarest/datastore/ddb"
	"github.com/suparena/dynarest/resource"
	"github.com/suparena/dynarest/schema"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	addrFlag    = flag.String("addr", ":8080", "HTTP listen address")
	schemaFlag  = flag.String("schema", "models/*.yaml", "Glob of YAML model files")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := dynarest.GetVersionInfo()
		fmt.Printf("dynarest version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	models, err := schema.Load(*schemaFlag)
	if err != nil {
		return err
	}

	client, err := ddb.NewClient(
		os.Getenv("AWS_ACCESS_KEY"),
		os.Getenv("AWS_SECRET_KEY"),
		os.Getenv("AWS_REGION"),
	)
	if err != nil {
		return fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	reg := dynarest.NewRegistry()
	for _, model := range models {
		keys, err := model.Keys()
		if err != nil {
			return err
		}
		store := ddb.New(client, model.Name, keys)

		res, err := resource.NewModel(model, store, "/"+strings.ToLower(model.Name))
		if err != nil {
			return fmt.Errorf("model %q: %w", model.Name, err)
		}
		if err := reg.Register(res); err != nil {
			return err
		}
		log.Printf("serving %s at %s", model.Name, res.Prefix)
	}

	mux := http.NewServeMux()
	reg.MountAll(mux)

	log.Printf("listening on %s", *addrFlag)
	return http.ListenAndServe(*addrFlag, mux)
}
