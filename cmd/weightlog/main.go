// weightlog is a local weight-tracking journal: accounts live in a SQLite
// file, passwords are stored as salted PBKDF2 hashes, and each command is
// one operation against the data layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peakscale/weightlog/internal/app"
	"github.com/peakscale/weightlog/pkg/slogx"
)

const usage = `usage: weightlog <command> [flags]

commands:
  register  -username <name> -password <pw>        create an account
  login     -username <name> -password <pw>        verify credentials, print user id
  add       -user <id> -date <yyyy-mm-dd> -weight <w>   record a measurement
  list      -user <id>                             print history, most recent first
  delete    -entry <id>                            remove one measurement
  goal      -user <id> [-set <w>]                  show or set the goal weight
  phone     -user <id> [-set <number>]             show or set the phone number
  optin     -user <id> -enable <true|false>        toggle SMS goal notifications
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	a, err := app.New(app.LoadConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "weightlog:", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := slogx.WithContext(context.Background(), a.Logger())

	if err := run(ctx, a, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "weightlog:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.Application, command string, args []string) error {
	switch command {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		u, err := a.Auth.Register(ctx, *username, *password)
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (user %d)\n", u.Username, u.ID)
		return nil

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		u, err := a.Auth.Login(ctx, *username, *password)
		if err != nil {
			return err
		}
		fmt.Printf("welcome %s (user %d)\n", u.Username, u.ID)
		return nil

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		user := fs.Int64("user", 0, "user id")
		date := fs.String("date", "", "entry date (yyyy-mm-dd)")
		weight := fs.Float64("weight", 0, "weight")
		_ = fs.Parse(args)

		e, err := a.Tracker.AddEntry(ctx, *user, *date, *weight)
		if err != nil {
			return err
		}
		fmt.Printf("entry %d: %s %.1f\n", e.ID, e.DateString(), e.Weight)
		return nil

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		user := fs.Int64("user", 0, "user id")
		_ = fs.Parse(args)

		entries, err := a.Tracker.Entries(ctx, *user)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%d\t%s\t%.1f\n", e.ID, e.DateString(), e.Weight)
		}
		return nil

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		entry := fs.Int64("entry", 0, "entry id")
		_ = fs.Parse(args)

		deleted, err := a.Tracker.DeleteEntry(ctx, *entry)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Printf("no entry %d\n", *entry)
			return nil
		}
		fmt.Printf("deleted entry %d\n", *entry)
		return nil

	case "goal":
		fs := flag.NewFlagSet("goal", flag.ExitOnError)
		user := fs.Int64("user", 0, "user id")
		set := fs.Float64("set", 0, "new goal weight")
		_ = fs.Parse(args)

		if *set != 0 {
			if err := a.Tracker.SetGoalWeight(ctx, *user, *set); err != nil {
				return err
			}
			fmt.Printf("goal set to %.1f\n", *set)
			return nil
		}
		goal, err := a.Tracker.GoalWeight(ctx, *user)
		if err != nil {
			return err
		}
		if goal == nil {
			fmt.Println("no goal set")
			return nil
		}
		fmt.Printf("goal: %.1f\n", *goal)
		return nil

	case "phone":
		fs := flag.NewFlagSet("phone", flag.ExitOnError)
		user := fs.Int64("user", 0, "user id")
		set := fs.String("set", "", "new phone number")
		_ = fs.Parse(args)

		if *set != "" {
			if err := a.Tracker.SetPhoneNumber(ctx, *user, *set); err != nil {
				return err
			}
			fmt.Println("phone number updated")
			return nil
		}
		phone, err := a.Tracker.PhoneNumber(ctx, *user)
		if err != nil {
			return err
		}
		if phone == "" {
			fmt.Println("no phone number set")
			return nil
		}
		fmt.Println(phone)
		return nil

	case "optin":
		fs := flag.NewFlagSet("optin", flag.ExitOnError)
		user := fs.Int64("user", 0, "user id")
		enable := fs.Bool("enable", false, "enable SMS notifications")
		_ = fs.Parse(args)

		if err := a.Tracker.SetSMSOptIn(*user, *enable); err != nil {
			return err
		}
		fmt.Printf("sms opt-in for user %d: %v\n", *user, *enable)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
