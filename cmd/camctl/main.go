// File: cmd/camctl/main.go

// camctl is a thin command line consumer of the camera backend, driving the
// same session client the application uses.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Ninano9/camera/internal/client"
	"github.com/Ninano9/camera/internal/client/tokenstore"
	"github.com/Ninano9/camera/internal/mapping"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultAPIURL = "http://localhost:8080"

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: camctl <command> [flags]

Commands:
  login      -email -password
  register   -email -password [-name]
  logout
  status
  me
  update-me  [-name] [-active]
  profiles   list | get -id | default | create -name [-description] [-default] | delete -id
  mappings   list -profile | create -profile -name -condition -action [-priority] | delete -id

Environment:
  CAMERA_API_URL  backend base URL (default ` + defaultAPIURL + `)`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	baseURL := os.Getenv("CAMERA_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	tokenPath, err := tokenstore.DefaultPath()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	tokens, err := tokenstore.NewFileStore(tokenPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	api := client.New(baseURL, tokens)
	session := client.NewSession(api, zap.NewNop())
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		runLogin(ctx, session, os.Args[2:])
	case "register":
		runRegister(ctx, session, os.Args[2:])
	case "logout":
		session.Logout(ctx)
		fmt.Println("Logged out.")
	case "status":
		runStatus(ctx, session)
	case "me":
		runMe(ctx, session)
	case "update-me":
		runUpdateMe(ctx, session, os.Args[2:])
	case "profiles":
		runProfiles(ctx, api, os.Args[2:])
	case "mappings":
		runMappings(ctx, api, os.Args[2:])
	default:
		usage()
	}
}

func runLogin(ctx context.Context, session *client.Session, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		log.Fatal("login requires -email and -password")
	}
	if err := session.Login(ctx, *email, *password); err != nil {
		log.Fatalf("Login failed: %s", session.Snapshot().Err)
	}
	fmt.Printf("Logged in as %s\n", *email)
}

func runRegister(ctx context.Context, session *client.Session, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name (optional)")
	fs.Parse(args)
	if *email == "" || *password == "" {
		log.Fatal("register requires -email and -password")
	}
	var displayName *string
	if *name != "" {
		displayName = name
	}
	if err := session.Register(ctx, *email, *password, displayName); err != nil {
		log.Fatalf("Registration failed: %s", session.Snapshot().Err)
	}
	fmt.Printf("Registered and logged in as %s\n", *email)
}

func runStatus(ctx context.Context, session *client.Session) {
	restore(ctx, session)
	snap := session.Snapshot()
	if !snap.Authenticated() {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("Logged in as %s (%s)\n", snap.User.Email, snap.User.ID)
}

func runMe(ctx context.Context, session *client.Session) {
	restore(ctx, session)
	snap := session.Snapshot()
	if !snap.Authenticated() {
		log.Fatal("Not logged in.")
	}
	printJSON(snap.User)
}

// restore hydrates the session from persisted tokens. Dead tokens just leave
// the session anonymous; only transport failures are fatal.
func restore(ctx context.Context, session *client.Session) {
	if err := session.Initialize(ctx); err != nil && !errors.Is(err, client.ErrSessionInvalid) {
		log.Fatalf("Session restore failed: %s", session.Snapshot().Err)
	}
}

func runUpdateMe(ctx context.Context, session *client.Session, args []string) {
	fs := flag.NewFlagSet("update-me", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	active := fs.Bool("active", true, "account active state")
	fs.Parse(args)

	var req user.UpdateRequest
	if *name != "" {
		req.DisplayName = name
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "active" {
			req.IsActive = active
		}
	})
	if err := session.UpdateUser(ctx, req); err != nil {
		log.Fatalf("Update failed: %s", session.Snapshot().Err)
	}
	printJSON(session.Snapshot().User)
}

func runProfiles(ctx context.Context, api *client.Client, args []string) {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		profiles, err := api.ListProfiles(ctx)
		exitOn(err)
		printJSON(profiles)
	case "get":
		fs := flag.NewFlagSet("profiles get", flag.ExitOnError)
		id := fs.String("id", "", "profile ID")
		fs.Parse(rest)
		p, err := api.GetProfile(ctx, mustUUID(*id))
		exitOn(err)
		printJSON(p)
	case "default":
		p, err := api.GetDefaultProfile(ctx)
		exitOn(err)
		printJSON(p)
	case "create":
		fs := flag.NewFlagSet("profiles create", flag.ExitOnError)
		name := fs.String("name", "", "profile name")
		description := fs.String("description", "", "profile description")
		isDefault := fs.Bool("default", false, "make this the default profile")
		fs.Parse(rest)
		if *name == "" {
			log.Fatal("profiles create requires -name")
		}
		req := profile.CreateRequest{Name: *name, IsDefault: *isDefault}
		if *description != "" {
			req.Description = description
		}
		p, err := api.CreateProfile(ctx, req)
		exitOn(err)
		printJSON(p)
	case "delete":
		fs := flag.NewFlagSet("profiles delete", flag.ExitOnError)
		id := fs.String("id", "", "profile ID")
		fs.Parse(rest)
		exitOn(api.DeleteProfile(ctx, mustUUID(*id)))
		fmt.Println("Deleted.")
	default:
		usage()
	}
}

func runMappings(ctx context.Context, api *client.Client, args []string) {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := flag.NewFlagSet("mappings list", flag.ExitOnError)
		profileID := fs.String("profile", "", "profile ID")
		fs.Parse(rest)
		mappings, err := api.ListMappings(ctx, mustUUID(*profileID))
		exitOn(err)
		printJSON(mappings)
	case "create":
		fs := flag.NewFlagSet("mappings create", flag.ExitOnError)
		profileID := fs.String("profile", "", "profile ID")
		name := fs.String("name", "", "mapping name")
		condition := fs.String("condition", "", "condition JSON object")
		action := fs.String("action", "", "action JSON object")
		priority := fs.Int("priority", 0, "mapping priority")
		fs.Parse(rest)
		if *name == "" || *condition == "" || *action == "" {
			log.Fatal("mappings create requires -name, -condition and -action")
		}
		req := mapping.CreateRequest{
			Name:      *name,
			Condition: mustJSONObject(*condition),
			Action:    mustJSONObject(*action),
			Priority:  *priority,
		}
		m, err := api.CreateMapping(ctx, mustUUID(*profileID), req)
		exitOn(err)
		printJSON(m)
	case "delete":
		fs := flag.NewFlagSet("mappings delete", flag.ExitOnError)
		id := fs.String("id", "", "mapping ID")
		fs.Parse(rest)
		exitOn(api.DeleteMapping(ctx, mustUUID(*id)))
		fmt.Println("Deleted.")
	default:
		usage()
	}
}

func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		log.Fatalf("Invalid ID %q: %v", s, err)
	}
	return id
}

func mustJSONObject(s string) map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		log.Fatalf("Invalid JSON object %q: %v", s, err)
	}
	return m
}

func exitOn(err error) {
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	fmt.Println(string(data))
}
