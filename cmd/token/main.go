package main

import (
	jwtPkg "ProjectRiya/pkg/jwt"
	"ProjectRiya/pkg/utils"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	room := flag.String("room", "feedback-agent", "room to grant access to")
	identity := flag.String("identity", "user1", "participant identity")
	ttl := flag.Duration("ttl", 2*time.Hour, "token lifetime")
	operator := flag.Bool("operator", false, "mint an operator API token instead of a room token")
	username := flag.String("username", "admin", "operator username, used with -operator")
	role := flag.String("role", "operator", "operator role, used with -operator")
	flag.Parse()

	// .env is optional here, the secrets may come from the shell
	_ = godotenv.Load()

	separator := strings.Repeat("=", 60)

	if *operator {
		id, err := utils.New().NewULIDFromTimestamp(time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create operator id: %v\n", err)
			os.Exit(1)
		}

		token, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
			"id":       id,
			"username": *username,
			"role":     *role,
		}, *ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to sign operator token: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(separator)
		fmt.Printf("Operator token for %q\n", *username)
		fmt.Println(separator)
		fmt.Printf("Role:       %s\n", *role)
		fmt.Printf("Expires at: %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
		fmt.Printf("Token:      %s\n", token)
		fmt.Println(separator)
		return
	}

	token, err := jwtPkg.NewRoomToken(*room, *identity, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint room token: %v\n", err)
		os.Exit(1)
	}

	serverURL := os.Getenv("LIVEKIT_URL")
	if serverURL == "" {
		serverURL = "ws://localhost:7880"
	}

	fmt.Println(separator)
	fmt.Printf("Room token for %q\n", *room)
	fmt.Println(separator)
	fmt.Printf("URL:      %s\n", serverURL)
	fmt.Printf("Room:     %s\n", *room)
	fmt.Printf("Identity: %s\n", *identity)
	fmt.Printf("Token:    %s\n", token)
	fmt.Println(separator)
}
