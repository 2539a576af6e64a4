package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errLoginRequired is reported when a logged-in command is used without a session.
var errLoginRequired = errors.New("please log in first")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Clients(ctx context.Context) error
	AddClient(ctx context.Context) error
	EditClient(ctx context.Context) error
	DeleteClient(ctx context.Context) error
	Products(ctx context.Context) error
	AddProduct(ctx context.Context) error
	EditProduct(ctx context.Context) error
	DeleteProduct(ctx context.Context) error
	Templates(ctx context.Context) error
	AddTemplate(ctx context.Context) error
	EditTemplate(ctx context.Context) error
	DeleteTemplate(ctx context.Context) error

	Invoices(ctx context.Context) error
	AddInvoice(ctx context.Context) error
	EditItems(ctx context.Context) error
	EditInvoice(ctx context.Context) error
	Show(ctx context.Context) error
	SetStatus(ctx context.Context) error
	Pay(ctx context.Context) error
	Delete(ctx context.Context) error
	Summary(ctx context.Context) error
	Export(ctx context.Context) error
	Download(ctx context.Context) error
	DeleteExport(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the invoicekeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands prompt for their own input on the
// same reader. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - login            authenticate
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - clients, addclient, editclient, delclient
//	  - products, addproduct, editproduct, delproduct
//	  - templates, addtemplate, edittemplate, deltemplate
//	  - invoices | l, addinvoice, items, editinvoice, show, status, pay, delete
//	  - summary          invoiced, received and outstanding amounts
//	  - export           write the invoice register as XLSX
//	  - download         copy an export to a local file
//	  - delexport        remove an export
//	  - reset            wipe the local store
//	  - logout           log out
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	loggedIn := map[string]func(context.Context) error{
		"clients":      a.Clients,
		"addclient":    a.AddClient,
		"editclient":   a.EditClient,
		"delclient":    a.DeleteClient,
		"products":     a.Products,
		"addproduct":   a.AddProduct,
		"editproduct":  a.EditProduct,
		"delproduct":   a.DeleteProduct,
		"templates":    a.Templates,
		"addtemplate":  a.AddTemplate,
		"edittemplate": a.EditTemplate,
		"deltemplate":  a.DeleteTemplate,
		"invoices":     a.Invoices,
		"l":            a.Invoices,
		"addinvoice":   a.AddInvoice,
		"items":        a.EditItems,
		"editinvoice":  a.EditInvoice,
		"show":         a.Show,
		"status":       a.SetStatus,
		"pay":          a.Pay,
		"delete":       a.Delete,
		"summary":      a.Summary,
		"export":       a.Export,
		"download":     a.Download,
		"delexport":    a.DeleteExport,
		"reset":        a.Reset,
		"logout":       a.Logout,
	}

	for {
		printlnFn(fmt.Sprintf("ik %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands:")
				printlnFn("  clients, addclient, editclient, delclient")
				printlnFn("  products, addproduct, editproduct, delproduct")
				printlnFn("  templates, addtemplate, edittemplate, deltemplate")
				printlnFn("  (l) invoices, addinvoice, items, editinvoice, show, status, pay, delete")
				printlnFn("  summary, export, download, delexport, reset, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			fn, ok := loggedIn[cmd]
			switch {
			case !ok:
				printlnFn("Unknown command:", cmd)
			case !a.isLoggedIn():
				cmdErr = errLoginRequired
			default:
				cmdErr = fn(ctx)
			}
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
