// Command gmail-token runs the Google consent flow once and prints an access
// token that can be sent as accessToken to the extract endpoint during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/justsurfingit/careerkit/internal/auth"
)

func main() {
	credentials := flag.String("credentials", "credentials.json", "OAuth client file downloaded from the Google console")
	tokenFile := flag.String("token", "token.json", "where the user's token is cached")
	flag.Parse()

	ctx := context.Background()
	config, err := auth.LoadOAuthConfig(*credentials)
	if err != nil {
		log.Fatal(err)
	}

	tok, err := auth.TokenFromFile(*tokenFile)
	if err != nil {
		tok, err = auth.TokenFromWeb(ctx, config, os.Stdin, os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Saving credential file to: %s\n", *tokenFile)
		if err := auth.SaveToken(*tokenFile, tok); err != nil {
			log.Fatal(err)
		}
	}

	// Refresh through the config so a cached but expired token still yields a usable one.
	fresh, err := config.TokenSource(ctx, tok).Token()
	if err != nil {
		log.Fatalf("Unable to refresh token: %v", err)
	}
	if fresh.AccessToken != tok.AccessToken {
		if err := auth.SaveToken(*tokenFile, fresh); err != nil {
			log.Printf("⚠️  Could not update cached token: %v", err)
		}
	}
	fmt.Println(fresh.AccessToken)
}
