package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/quantumpark/ledgercore"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg ledgercore.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}
	cfgfl.Close()

	store, err := ledgercore.NewFileStore(cfg.Store.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening record store")
	}
	collector := ledgercore.Account{
		ID:         cfg.System.FeeCollectorID,
		Name:       cfg.System.FeeCollectorName,
		Credential: cfg.System.FeeCollectorCredential,
	}
	if err = store.Bootstrap(collector); err != nil {
		logger.Fatal().Err(err).Msg("error bootstrapping record store")
	}
	ledger, err := ledgercore.NewLedgerLog(cfg.Store.LedgerPath, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening ledger log")
	}
	if err = ledger.Init(); err != nil {
		logger.Fatal().Err(err).Msg("error initializing ledger log")
	}

	svc, err := ledgercore.NewService(store, ledger, cfg.System.FeeCollectorID, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting service")
	}
	wrapped := ledgercore.NewValidationMiddleware(cfg.System.FeeCollectorID)(
		ledgercore.NewSerializeMiddleware()(svc),
	)

	green.Println("[SYSTEM] Ready.")
	run(&console{
		in:          bufio.NewScanner(os.Stdin),
		svc:         wrapped,
		ledger:      ledger,
		collectorID: cfg.System.FeeCollectorID,
	})
}

type console struct {
	in          *bufio.Scanner
	svc         ledgercore.Service
	ledger      ledgercore.Ledger
	collectorID int64
}

func run(c *console) {
	var loggedIn *ledgercore.Account
	for {
		if loggedIn == nil {
			fmt.Println("\n--- LEDGER CORE SYSTEM ---")
			fmt.Println("1. Login")
			fmt.Println("2. Register")
			fmt.Println("3. Exit")
			switch c.readInt("Select: ") {
			case 1:
				loggedIn = c.login()
			case 2:
				c.register()
			case 3:
				return
			default:
				red.Println("Invalid choice.")
			}
			continue
		}

		fmt.Printf("\n--- DASHBOARD (ID: %d) ---\n", loggedIn.ID)
		fmt.Println("1. Deposit Money")
		fmt.Println("2. Transfer Money")
		fmt.Println("3. Account Statement")
		fmt.Println("4. Export Statement (PDF)")
		if loggedIn.ID == c.collectorID {
			yellow.Println("5. Admin Dashboard")
		}
		fmt.Println("6. Logout")
		switch choice := c.readInt("Select: "); {
		case choice == 1:
			c.deposit(loggedIn.ID)
		case choice == 2:
			c.transfer(loggedIn.ID)
		case choice == 3:
			c.statement(loggedIn.ID)
		case choice == 4:
			c.exportStatement(loggedIn.ID)
		case choice == 5 && loggedIn.ID == c.collectorID:
			c.adminDashboard()
		case choice == 6:
			loggedIn = nil
			fmt.Println("Logged out.")
		default:
			red.Println("Invalid choice.")
		}
	}
}

func (c *console) login() *ledgercore.Account {
	fmt.Println("\n--- LOGIN ---")
	req := ledgercore.AuthReq{
		ID:         int64(c.readInt("User ID: ")),
		Credential: c.readLine("Password: "),
	}
	acct, err := c.svc.Authenticate(req)
	if err != nil {
		red.Println("Invalid Credentials.")
		return nil
	}
	green.Printf("\nWelcome back, %s!\n", acct.Name)
	cyan.Printf("Current Balance: $%s\n", acct.Balance.StringFixed(2))
	return acct
}

func (c *console) register() {
	fmt.Println("\n--- REGISTRATION ---")
	req := ledgercore.CreateAccountReq{
		ID:         int64(c.readInt("Enter new User ID: ")),
		Name:       c.readLine("Enter Name: "),
		Credential: c.readLine("Enter Password: "),
	}
	if _, err := c.svc.CreateAccount(req); err != nil {
		var dup ledgercore.ErrDuplicateID
		if errors.As(err, &dup) {
			red.Println("Error: User ID already exists.")
			return
		}
		red.Printf("Error: %v\n", err)
		return
	}
	green.Println("User Registered Successfully!")
}

func (c *console) deposit(id int64) {
	amt := c.readAmount("Enter Amount: ")
	bal, err := c.svc.Deposit(ledgercore.ChargeReq{AcctID: id, Amount: amt})
	if err != nil {
		red.Printf("Error: %v\n", err)
		return
	}
	green.Printf("\n[SUCCESS] Deposited $%s. New Balance: $%s\n", amt.StringFixed(2), bal.StringFixed(2))
}

func (c *console) transfer(senderID int64) {
	req := ledgercore.TransferReq{
		SenderID:   senderID,
		ReceiverID: int64(c.readInt("Enter Receiver ID: ")),
		Amount:     c.readAmount("Enter Amount: "),
	}
	receipt, err := c.svc.Transfer(req)
	if err != nil {
		var short ledgercore.ErrInsufficientFunds
		if errors.As(err, &short) {
			red.Printf("Insufficient Funds! You are short $%s (incl. fee).\n", short.Shortfall.StringFixed(2))
			return
		}
		red.Printf("Error: %v\n", err)
		return
	}
	green.Printf("\n[SUCCESS] Sent $%s to User %d.\n", receipt.Amount.StringFixed(2), req.ReceiverID)
	yellow.Printf("[INFO] Fee Deducted: $%s\n", receipt.Fee.StringFixed(2))
}

func (c *console) statement(id int64) {
	fmt.Println("\n=================================================================")
	cyan.Printf("                  ACCOUNT STATEMENT: USER ID %d\n", id)
	fmt.Println("=================================================================")
	fmt.Printf("%-24s | %-10s | %-12s | %s\n", "TX ID", "TYPE", "AMOUNT", "DATE")
	fmt.Println("-----------------------------------------------------------------")

	var found bool
	err := c.ledger.ReadAll(id, func(txn ledgercore.Transaction) (bool, error) {
		found = true
		date := txn.Timestamp.Format("2006-01-02 15:04:05")
		if txn.SenderID == id {
			fmt.Printf("%-24s | %-10s | ", txn.TxID, "SENT")
			red.Printf("-$%-11s", txn.Amount.StringFixed(2))
		} else {
			fmt.Printf("%-24s | %-10s | ", txn.TxID, "RECEIVED")
			green.Printf("+$%-11s", txn.Amount.StringFixed(2))
		}
		fmt.Printf(" | %s\n", date)
		return false, nil
	})
	if err != nil {
		red.Printf("Error: transaction history not found: %v\n", err)
		return
	}
	if !found {
		fmt.Println("\t\tNo transactions found.")
	}
	fmt.Println("=================================================================")
}

func (c *console) exportStatement(id int64) {
	path := c.readLine("Output file (e.g. statement.pdf): ")
	f, err := os.Create(path)
	if err != nil {
		red.Printf("Error: %v\n", err)
		return
	}
	defer f.Close()
	if err = c.svc.Statement(f, ledgercore.StatementReq{AcctID: id}); err != nil {
		red.Printf("Error: %v\n", err)
		return
	}
	green.Printf("Statement written to %s\n", path)
}

func (c *console) adminDashboard() {
	sum, err := c.svc.Summary()
	if err != nil {
		red.Printf("Error: %v\n", err)
		return
	}
	yellow.Println("\n#####################################################")
	yellow.Println("             QUANTUM PARK - SYSTEM ADMIN             ")
	yellow.Println("#####################################################")
	fmt.Println(" SYSTEM HEALTH METRICS:")
	fmt.Println(" ----------------------")
	fmt.Printf(" Active Users:    %d\n", sum.ActiveAccounts)
	fmt.Printf(" Total Liquidity: $%s (User Assets)\n", sum.TotalLiquidity.StringFixed(2))
	fmt.Print(" Total Revenue:   ")
	green.Printf("$%s", sum.TotalRevenue.StringFixed(2))
	fmt.Println(" (Collected Fees)")
	if sum.TotalLiquidity.IsPositive() {
		ratio := sum.TotalRevenue.Div(sum.TotalLiquidity).Mul(decimal.NewFromInt(100))
		fmt.Printf(" Capital Ratio:   %s%%\n", ratio.StringFixed(2))
	} else {
		fmt.Println(" Capital Ratio:   N/A (No Liquidity)")
	}
	fmt.Println("#####################################################")
}

func (c *console) readLine(prompt string) string {
	fmt.Print(prompt)
	if !c.in.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) readInt(prompt string) int {
	for {
		n, err := strconv.Atoi(c.readLine(prompt))
		if err == nil {
			return n
		}
		red.Println("Enter a number.")
	}
}

func (c *console) readAmount(prompt string) decimal.Decimal {
	for {
		amt, err := decimal.NewFromString(c.readLine(prompt))
		if err == nil {
			return amt
		}
		red.Println("Enter a valid amount.")
	}
}
