package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jayakumar9/atlas-account-vault/internal/client/api"
	"github.com/jayakumar9/atlas-account-vault/internal/client/form"
	"github.com/jayakumar9/atlas-account-vault/internal/client/render"
	"github.com/jayakumar9/atlas-account-vault/internal/client/session"
	"github.com/jayakumar9/atlas-account-vault/internal/client/status"
	"github.com/jayakumar9/atlas-account-vault/internal/client/ui"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
	"github.com/jayakumar9/atlas-account-vault/internal/passgen"
)

var (
	version   string
	buildDate string
)

// app bundles the client-side pieces the shell commands share.
type app struct {
	client   *api.Client
	session  *session.Store
	monitor  *status.Monitor
	notifier *ui.Notifier
	renderer *render.Renderer
	ctrl     *form.Controller
	in       *bufio.Reader

	// accounts mirrors the last rendered list so commands can resolve
	// the serial numbers the user sees into record IDs.
	accounts []models.Account
}

// reload re-fetches the account list and redraws it. Like every other
// account operation it consults the status gate first and aborts while
// the backend reports disconnected.
func (a *app) reload(ctx context.Context) {
	if !a.monitor.Check(ctx) {
		a.notifier.Error("Cannot load accounts: Database is not connected")
		return
	}
	accounts, err := a.client.ListAccounts(ctx)
	if err != nil {
		a.notifier.Error("Failed to load accounts: %s", err)
		return
	}
	a.accounts = accounts
	a.renderer.Render(accounts)
}

// resolve maps a serial number the user typed to the record it names.
func (a *app) resolve(arg string) (*models.Account, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil {
		fmt.Printf("Invalid account number: %s\n", arg)
		return nil, false
	}
	for i := range a.accounts {
		if a.accounts[i].SerialNumber == n {
			return &a.accounts[i], true
		}
	}
	fmt.Printf("No account #%d in the list. Run 'list' first.\n", n)
	return nil, false
}

func (a *app) requireLogin() bool {
	if a.session.Authenticated() {
		return true
	}
	a.notifier.Error("Please log in first")
	return false
}

func (a *app) readLine(label string) string {
	fmt.Printf("%s: ", label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) login(ctx context.Context) {
	email := a.readLine("Email")
	password := a.readLine("Password")
	if err := a.session.Login(ctx, email, password); err != nil {
		a.notifier.Error("%s", err)
		return
	}
	a.notifier.Success("Welcome back, %s!", a.session.User().Username)
	a.reload(ctx)
}

func (a *app) register(ctx context.Context) {
	username := a.readLine("Username")
	email := a.readLine("Email")
	password := a.readLine("Password")
	if err := a.session.Register(ctx, username, email, password); err != nil {
		a.notifier.Error("%s", err)
		return
	}
	a.notifier.Success("Account created. Welcome, %s!", a.session.User().Username)
	a.reload(ctx)
}

func (a *app) add(ctx context.Context) {
	if !a.requireLogin() {
		return
	}
	a.ctrl.Reset()
	fields, err := form.PromptFields(a.in, os.Stdout, a.ctrl.Fields())
	if err != nil {
		a.notifier.Error("%s", err)
		return
	}
	a.ctrl.SetFields(fields)
	a.ctrl.Submit(ctx)
}

func (a *app) edit(ctx context.Context, arg string) {
	if !a.requireLogin() {
		return
	}
	acc, ok := a.resolve(arg)
	if !ok {
		return
	}
	a.ctrl.Edit(ctx, acc.ID)
	if !a.ctrl.Editing() {
		return
	}
	fields, err := form.PromptFields(a.in, os.Stdout, a.ctrl.Fields())
	if err != nil {
		a.notifier.Error("%s", err)
		return
	}
	a.ctrl.SetFields(fields)
	a.ctrl.Submit(ctx)
}

func (a *app) file(ctx context.Context, arg string, download bool) {
	if !a.requireLogin() {
		return
	}
	acc, ok := a.resolve(arg)
	if !ok {
		return
	}
	if acc.AttachedFile == nil {
		fmt.Printf("Account #%d has no attachment.\n", acc.SerialNumber)
		return
	}
	a.ctrl.ViewFile(ctx, acc.ID, acc.AttachedFile.Filename, download)
}

// repl runs the interactive shell loop.
func (a *app) repl(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("vault> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, status, register, login, logout, whoami,")
			fmt.Println("  list, add, edit <n>, delete <n>, view <n>, download <n>, passgen, exit")
		case "status":
			a.monitor.Check(ctx)
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.session.Logout()
			a.accounts = nil
			fmt.Println("Logged out")
		case "whoami":
			if u := a.session.User(); u != nil {
				fmt.Printf("%s <%s>\n", u.Username, u.Email)
			} else {
				fmt.Println("Not logged in")
			}
		case "list":
			if a.requireLogin() {
				a.reload(ctx)
			}
		case "add":
			a.add(ctx)
		case "edit":
			if len(args) < 2 {
				fmt.Println("Usage: edit <n>")
				continue
			}
			a.edit(ctx, args[1])
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <n>")
				continue
			}
			if !a.requireLogin() {
				continue
			}
			if acc, ok := a.resolve(args[1]); ok {
				a.ctrl.Delete(ctx, acc.ID)
			}
		case "view":
			if len(args) < 2 {
				fmt.Println("Usage: view <n>")
				continue
			}
			a.file(ctx, args[1], false)
		case "download":
			if len(args) < 2 {
				fmt.Println("Usage: download <n>")
				continue
			}
			a.file(ctx, args[1], true)
		case "passgen":
			fmt.Println(passgen.Generate())
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	var (
		baseURL   string
		tokenPath string
		showVer   bool
	)

	home, _ := os.UserHomeDir()
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&tokenPath, "token-file", filepath.Join(home, ".atlas-vault-token"), "path to the saved session token")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Atlas Account Vault Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.New(baseURL, nil)
	notifier := ui.NewNotifier(os.Stdout, true)
	monitor := status.NewMonitor(client, os.Stdout)
	sess := session.NewStore(client, tokenPath)

	a := &app{
		client:   client,
		session:  sess,
		monitor:  monitor,
		notifier: notifier,
		renderer: render.NewRenderer(os.Stdout),
		in:       bufio.NewReader(os.Stdin),
	}
	a.ctrl = form.NewController(client, sess, monitor, notifier, os.Stdout)
	a.ctrl.Reload = a.reload
	a.ctrl.Confirm = func(prompt string) bool {
		answer := a.readLine(prompt + " (y/n)")
		return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	}

	monitor.Start(ctx, status.PollInterval)

	if err := sess.Restore(ctx); err != nil {
		notifier.Warning("Could not restore session: %v", err)
	}
	if sess.Authenticated() {
		fmt.Printf("Welcome back, %s!\n", sess.User().Username)
		a.reload(ctx)
	}

	a.repl(ctx)
}
