// Package main provides the support engine CLI entrypoint.
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

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL     string
	outputJSON bool

	httpClient = &http.Client{Timeout: 60 * time.Second}
)

// knownDomains are the knowledge domains the API serves.
var knownDomains = []string{"returns", "shipping", "payments", "orders", "warranty"}

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "support-cli",
	Short: "Support engine CLI for queries and source cache administration",
	Long: `Support engine CLI talks to a running support-api instance.

Use this tool to:
- Ask customer-support questions from the terminal
- Warm the knowledge source cache ahead of traffic
- Clear a domain's cached corpus and replies
- Inspect a domain's cache provenance and freshness

All commands support --json for automation.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8085", "base URL of the support-api server")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newWarmCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newDiagnoseCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a customer-support question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)
			question := strings.Join(args, " ")

			var sp *spinner.Spinner
			if !outputJSON {
				sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " Thinking..."
				sp.Start()
			}

			body, err := postJSON("/api/v1/chat/query", map[string]string{"query": question})
			if sp != nil {
				sp.Stop()
			}
			if err != nil {
				ui.Error("Query failed: %v", err)
				return err
			}

			if outputJSON {
				fmt.Println(string(body))
				return nil
			}

			var resp struct {
				Reply      string `json:"reply"`
				Topic      string `json:"topic"`
				Strategy   string `json:"strategy"`
				Provenance string `json:"provenance"`
				Cached     bool   `json:"cached"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			ui.Reply(resp.Reply)
			ui.Detail("topic=%s strategy=%s provenance=%s cached=%v",
				resp.Topic, resp.Strategy, resp.Provenance, resp.Cached)
			return nil
		},
	}
}

// newWarmCmd creates the warm subcommand.
func newWarmCmd() *cobra.Command {
	var domains []string

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Warm the knowledge source cache for all domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)
			targets := domains
			if len(targets) == 0 {
				targets = knownDomains
			}

			var bar *progressbar.ProgressBar
			if !outputJSON {
				bar = progressbar.NewOptions(len(targets),
					progressbar.OptionSetDescription("Warming sources"),
					progressbar.OptionClearOnFinish(),
				)
			}

			results := make(map[string]string, len(targets))
			failed := 0
			for _, domain := range targets {
				body, err := postJSON("/api/v1/admin/sources/"+domain+"/refresh", nil)
				if err != nil {
					results[domain] = "error: " + err.Error()
					failed++
				} else {
					var resp struct {
						Provenance string `json:"provenance"`
					}
					if json.Unmarshal(body, &resp) == nil {
						results[domain] = resp.Provenance
					} else {
						results[domain] = "ok"
					}
				}
				if bar != nil {
					bar.Add(1)
				}
			}

			if outputJSON {
				out, _ := json.Marshal(results)
				fmt.Println(string(out))
			} else {
				for _, domain := range targets {
					if strings.HasPrefix(results[domain], "error") {
						ui.Error("%s: %s", domain, results[domain])
					} else {
						ui.Success("%s: %s", domain, results[domain])
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d domains failed to warm", failed, len(targets))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&domains, "domain", nil, "warm only the given domains (repeatable)")
	return cmd
}

// newClearCmd creates the clear subcommand.
func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [domain]",
		Short: "Clear a domain's cached corpus and replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)
			domain := args[0]

			body, err := postJSON("/api/v1/admin/sources/"+domain+"/clear", nil)
			if err != nil {
				ui.Error("Clear failed: %v", err)
				return err
			}

			if outputJSON {
				fmt.Println(string(body))
				return nil
			}
			ui.Success("Cleared %s", domain)
			return nil
		},
	}
}

// newDiagnoseCmd creates the diagnose subcommand.
func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose [domain]",
		Short: "Inspect a domain's cache provenance and freshness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)
			domain := args[0]

			body, err := getJSON("/api/v1/admin/sources/" + domain + "/")
			if err != nil {
				ui.Error("Diagnose failed: %v", err)
				return err
			}

			if outputJSON {
				fmt.Println(string(body))
				return nil
			}

			var resp struct {
				Domain     string `json:"domain"`
				Provenance string `json:"provenance"`
				FetchedAt  string `json:"fetchedAt"`
				Preview    string `json:"preview"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			ui.Success("%s: provenance=%s fetched_at=%s", resp.Domain, resp.Provenance, resp.FetchedAt)
			ui.Detail("%s", resp.Preview)
			return nil
		},
	}
}

func postJSON(path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req)
}

func getJSON(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return do(req)
}

func do(req *http.Request) ([]byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
