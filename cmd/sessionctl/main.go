// sessionctl es el CLI administrativo del servicio de sesiones. Habla con
// la superficie /v1/admin protegida por API key.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Admin-API-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("SESSIOND_ADMIN_URL", "http://localhost:8080")
		apiKey  = envOr("SESSIOND_ADMIN_KEY", "")
		out     = envOr("SESSIOND_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "sessionctl",
		Short: "CLI admin para sessiond (solo /v1/admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("falta API key (flag --admin-api-key o env SESSIOND_ADMIN_KEY)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "admin-api-url", baseURL, "URL base del Admin API (env SESSIOND_ADMIN_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "API key del Admin API (env SESSIOND_ADMIN_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{BaseURL: baseURL, APIKey: apiKey, OutFormat: out, HTTP: &http.Client{Timeout: timeout}}

	// grupo sessions
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Operaciones sobre sesiones",
	}

	closeCmd := &cobra.Command{
		Use:   "close <session-id>",
		Short: "Cierra una sesión por id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("DELETE", "/v1/admin/sessions/"+args[0], nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("close falló: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("closed")
				return nil
			}
			cl.print(status, []byte(`{"closed":true}`))
			return nil
		},
	}

	// grupo users
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Operaciones sobre las sesiones de un usuario",
	}

	listCmd := &cobra.Command{
		Use:   "sessions <user-id>",
		Short: "Lista las sesiones activas de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/users/"+args[0]+"/sessions", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	logoutAllCmd := &cobra.Command{
		Use:   "logout-all <user-id>",
		Short: "Cierra todas las sesiones activas de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("POST", "/v1/admin/users/"+args[0]+"/logout-all", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("logout-all falló: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, []byte(`{"ok":true}`))
			return nil
		},
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Chequea disponibilidad del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/readyz", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping falló: status=%d body=%s", status, string(body))
			}
			fmt.Println("ok")
			return nil
		},
	}

	sessionsCmd.AddCommand(closeCmd)
	usersCmd.AddCommand(listCmd, logoutAllCmd)
	root.AddCommand(sessionsCmd, usersCmd, pingCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
