package authctl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/server/httpapi"
)

// App drives the interactive commands. reader and out are injected so tests
// can script the dialog.
type App struct {
	client *Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(client *Client, reader *bufio.Reader, out io.Writer) *App {
	return &App{client: client, reader: reader, out: out}
}

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	resp, err := a.client.Register(ctx, username, email, string(password), string(confirm))
	if err != nil {
		return err
	}

	a.printResponse(resp)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	identifier, err := GetSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.client.Login(ctx, identifier, string(password))
	if err != nil {
		return err
	}

	a.printResponse(resp)
	return nil
}

func (a *App) Me(ctx context.Context, token string) error {
	resp, err := a.client.Me(ctx, token)
	if err != nil {
		return err
	}

	a.printResponse(resp)
	return nil
}

func (a *App) printResponse(resp *httpapi.ApiResponse) {
	fmt.Fprintln(a.out, resp.Message)
	if resp.Data == nil {
		return
	}
	if pretty, err := json.MarshalIndent(resp.Data, "", "  "); err == nil {
		fmt.Fprintln(a.out, string(pretty))
	}
}
