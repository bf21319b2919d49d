// Package main writes a self-signed server certificate and key for serving
// the museum API over HTTPS during development. Point TLS_CERT_FILE and
// TLS_KEY_FILE at the generated files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/museum/internal/certgen"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma separated host names and IPs")
	days := fs.Int("days", 365, "validity in days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *days <= 0 {
		return fmt.Errorf("days must be positive, got %d", *days)
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	certPEM, keyPEM, err := certgen.GenerateSelfSigned(names, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}

	certPath, keyPath := *dir+"/server.crt", *dir+"/server.key"
	if err := certgen.WriteKeyPair(certPath, keyPath, certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Printf("Certificate written to %s, key to %s\n", certPath, keyPath)
	return nil
}
