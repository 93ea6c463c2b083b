package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/financy/financy-backend/internal/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	api, err := newClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize client")
	}

	switch os.Args[1] {
	case "register":
		runRegister(api)
	case "login":
		runLogin(api)
	case "logout":
		runLogout(api)
	case "whoami":
		runWhoami(api)
	case "categories":
		runCategories(api)
	case "transactions":
		runTransactions(api)
	case "summary":
		runSummary(api)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Financy CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  financy <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  register      Create an account and log in")
	fmt.Println("  login         Log in with email and password")
	fmt.Println("  logout        Drop the local session")
	fmt.Println("  whoami        Show the logged-in user")
	fmt.Println("  categories    List or create categories")
	fmt.Println("  transactions  List or create transactions")
	fmt.Println("  summary       Show monthly income, expense, and balance")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'financy <command> -h' for more information on a command.")
}

func newClient() (*client.Client, error) {
	endpoint := os.Getenv("FINANCY_API")
	if endpoint == "" {
		endpoint = "http://localhost:4000/graphql"
	}

	store, err := client.DefaultSessionStore()
	if err != nil {
		return nil, err
	}

	api, err := client.New(endpoint, store)
	if err != nil {
		return nil, err
	}
	api.OnSessionExpired = func() {
		fmt.Fprintln(os.Stderr, "Session expired, please log in again.")
	}
	return api, nil
}

func runRegister(api *client.Client) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (min 8 characters)")
	fs.Parse(os.Args[2:])

	if *name == "" || *email == "" || *password == "" {
		log.Fatal().Msg("Usage: financy register -name NAME -email EMAIL -password PASSWORD")
	}

	payload, err := api.Register(context.Background(), *name, *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("Registration failed")
	}

	fmt.Printf("Registered and logged in as %s <%s>\n", payload.User.Name, payload.User.Email)
}

func runLogin(api *client.Client) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	fs.Parse(os.Args[2:])

	if *email == "" || *password == "" {
		log.Fatal().Msg("Usage: financy login -email EMAIL -password PASSWORD")
	}

	payload, err := api.Login(context.Background(), *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}

	fmt.Printf("Logged in as %s <%s>\n", payload.User.Name, payload.User.Email)
}

func runLogout(api *client.Client) {
	if err := api.Logout(); err != nil {
		log.Fatal().Err(err).Msg("Logout failed")
	}
	fmt.Println("Logged out.")
}

func runWhoami(api *client.Client) {
	user, err := api.Me(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Request failed")
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
}

func runCategories(api *client.Client) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	create := fs.String("create", "", "Create a category with the given name")
	description := fs.String("description", "", "Category description (with -create)")
	icon := fs.String("icon", "", "Category icon (with -create)")
	color := fs.String("color", "", "Category color (with -create)")
	remove := fs.String("delete", "", "Delete the category with the given id")
	fs.Parse(os.Args[2:])

	ctx := context.Background()

	if *create != "" {
		category, err := api.CreateCategory(ctx, *create, *description, *icon, *color)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create category")
		}
		fmt.Printf("Created category %s (%s)\n", category.Name, category.ID)
		return
	}

	if *remove != "" {
		if err := api.DeleteCategory(ctx, *remove); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete category")
		}
		fmt.Println("Category deleted.")
		return
	}

	categories, err := api.ListCategories(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list categories")
	}

	if len(categories) == 0 {
		fmt.Println("No categories yet.")
		return
	}
	for _, c := range categories {
		fmt.Printf("%-36s  %-20s  %d transactions\n", c.ID, c.Name, c.TransactionCount)
	}
}

func runTransactions(api *client.Client) {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	create := fs.String("create", "", "Create a transaction with the given title")
	amount := fs.Float64("amount", 0, "Transaction amount (with -create)")
	txType := fs.String("type", "OUTPUT", "Transaction type: INPUT or OUTPUT (with -create)")
	categoryID := fs.String("category", "", "Category id (with -create)")
	date := fs.String("date", "", "Transaction date, RFC 3339 (with -create, defaults to now)")
	remove := fs.String("delete", "", "Delete the transaction with the given id")
	fs.Parse(os.Args[2:])

	ctx := context.Background()

	if *create != "" {
		var when time.Time
		if *date != "" {
			parsed, err := time.Parse(time.RFC3339, *date)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid -date, expected RFC 3339")
			}
			when = parsed
		}

		transaction, err := api.CreateTransaction(ctx, *create, *amount, *txType, *categoryID, when)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create transaction")
		}
		fmt.Printf("Created transaction %s (%s)\n", transaction.Title, transaction.ID)
		return
	}

	if *remove != "" {
		if err := api.DeleteTransaction(ctx, *remove); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete transaction")
		}
		fmt.Println("Transaction deleted.")
		return
	}

	transactions, err := api.ListTransactions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions yet.")
		return
	}
	for _, t := range transactions {
		sign := "-"
		if t.Type == "INPUT" {
			sign = "+"
		}
		fmt.Printf("%s  %s%9.2f  %-30s  %s\n", t.Date.Format("2006-01-02"), sign, t.Amount, t.Title, t.ID)
	}
}

func runSummary(api *client.Client) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	year := fs.Int("year", 0, "Year (defaults to current)")
	month := fs.Int("month", 0, "Month 1-12 (defaults to current)")
	fs.Parse(os.Args[2:])

	summary, err := api.GetMonthlySummary(context.Background(), *year, *month)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch summary")
	}

	fmt.Printf("Summary for %04d-%02d\n", summary.Year, summary.Month)
	fmt.Printf("  Income:  %10.2f\n", summary.Income)
	fmt.Printf("  Expense: %10.2f\n", summary.Expense)
	fmt.Printf("  Balance: %10.2f\n", summary.Balance)
}
