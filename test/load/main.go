/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

/*
 * This tests aggressive request spamming against `strata serve`. Every
 * request carries a program with freshly generated identifiers, so no two
 * request bodies are alike.
 */

func program(id string, i int) string {
	name := "v_" + strings.ReplaceAll(id, "-", "_")
	return fmt.Sprintf("def f_%d(%s):\n    return [%s * k for k in range(%d) if k %% 2]\n\nf_%d(%d)\n",
		i, name, name, i, i, i)
}

func main() {
	target := flag.String("url", "http://localhost:8001/parse", "Parse endpoint")
	workers := flag.Int("workers", 10, "Concurrent clients")
	requests := flag.Int("requests", 1000, "Requests per client")
	flag.Parse()

	var failures atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.NewString()
			client := &http.Client{}

			for i := 0; i < *requests; i++ {
				resp, err := client.Post(*target, "text/plain", strings.NewReader(program(id, i)))
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					failures.Add(1)
				}
			}
		}()
	}

	wg.Wait()
	if n := failures.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d requests failed\n", n)
		os.Exit(1)
	}
}
