// Command license-issuer is the vendor-side tool: it turns an
// activation code received from a customer into a signed license
// string.
//
// The signing seed comes from the PAUSALER_ISSUER_SEED environment
// variable (64 hex characters). Without it the tool falls back to the
// development seed, which is fine for local testing and nothing else.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"pausaler/internal/license"
)

const devSeedHex = "c590af4308cc0f6a1a4faccf7c05ff00b3d7d4d38a9ad52b1af10f0c6b3a3f10"

const usage = `Usage:
  license-issuer generate -activation-code <code> -type <yearly|lifetime>
  license-issuer public-key

Environment:
  PAUSALER_ISSUER_SEED  signing seed, 64 hex characters (falls back to
                        the development seed when unset)
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	issuer, err := newIssuerFromEnv(logger)
	if err != nil {
		logger.Error("failed to create issuer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		if err := runGenerate(issuer, os.Args[2:], os.Stdout); err != nil {
			logger.Error("failed to generate license", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case "public-key":
		pem, err := issuer.PublicKeyPEM()
		if err != nil {
			logger.Error("failed to encode public key", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Print(pem)
	default:
		fmt.Fprintf(os.Stderr, "license-issuer: unknown command %q\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func newIssuerFromEnv(logger *slog.Logger) (*license.Issuer, error) {
	seedHex := os.Getenv("PAUSALER_ISSUER_SEED")
	if seedHex == "" {
		logger.Warn("PAUSALER_ISSUER_SEED not set, using development seed")
		seedHex = devSeedHex
	}
	return license.NewIssuerFromSeedHex(seedHex, license.AppID)
}

func runGenerate(issuer *license.Issuer, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	code := fs.String("activation-code", "", "activation code received from the customer")
	typeName := fs.String("type", "", "license type: yearly or lifetime")
	fs.Parse(args)

	if *code == "" {
		return fmt.Errorf("missing required flag -activation-code")
	}

	var typ license.Type
	switch *typeName {
	case "yearly":
		typ = license.TypeYearly
	case "lifetime":
		typ = license.TypeLifetime
	default:
		return fmt.Errorf("invalid -type %q: must be yearly or lifetime", *typeName)
	}

	licenseStr, err := issuer.Issue(*code, typ, time.Now())
	if err != nil {
		return fmt.Errorf("issue license: %w", err)
	}

	fmt.Fprintln(out, licenseStr)
	return nil
}
