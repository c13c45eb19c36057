// Gmail ask answers natural-language questions about your Gmail inbox using a hosted language model.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-ask/internal/assistant"
	"github.com/hal9000y/gmail-ask/internal/auth"
	"github.com/hal9000y/gmail-ask/internal/config"
	"github.com/hal9000y/gmail-ask/internal/format"
	"github.com/hal9000y/gmail-ask/internal/gservice"
	"github.com/hal9000y/gmail-ask/internal/llm"
	"github.com/hal9000y/gmail-ask/internal/tool"
)

const defaultQuestion = "List all the persons who send me email today"

func main() {
	question := flag.String("query", defaultQuestion, "Question to answer from your mailbox")
	httpAddr := flag.String("http-addr", "localhost:8080", "OAuth callback listen addr")
	oauthTokenFile := flag.String("oauth-token-file", "token.json", "Path to cache google oauth token, empty to avoid storing")
	envFileParam := flag.String("env-file", "", "Path to env file")
	maxResults := flag.Int64("max-results", assistant.DefaultMaxResults, "Max messages used as answer context")
	label := flag.String("label", assistant.DefaultLabel, "Gmail label to search, empty for all mail")
	htmlFallback := flag.Bool("html-fallback", false, "Use the HTML part as body when a message has no plain text part")
	enableStdio := flag.Bool("stdio", false, "Serve MCP tools over stdio instead of answering -query")
	logFile := flag.String("log-file", "", "Path to log file (otherwise logs to stderr, or nowhere with -stdio)")

	flag.Parse()

	persistLogs := setupLogger(*enableStdio, *logFile)
	defer persistLogs()

	cfg, err := config.Load(*envFileParam)
	if err != nil {
		panic(fmt.Errorf("config.Load failed: %w", err))
	}

	ln := mustListen(*httpAddr)
	oauthCfg, err := cfg.OAuthConfig(fmt.Sprintf("http://%s/oauth", ln.Addr().String()))
	if err != nil {
		panic(fmt.Errorf("cfg.OAuthConfig failed: %w", err))
	}

	tok, err := auth.NewToken(oauthCfg, *oauthTokenFile)
	if err != nil {
		panic(fmt.Errorf("auth.NewToken failed: %w", err))
	}

	defer func() {
		log.Println("Persisting token if exists")
		if err := tok.Persist(); err != nil {
			log.Println(fmt.Errorf("tok.Persist failed: %w", err))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/oauth", auth.NewHTTPHandler(tok))

	srv := &http.Server{
		Handler: mux,
	}

	stopHTTP, _ := serveHTTP(srv, ln)
	defer stopHTTP()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
		openBrowser(oauthCfg.RedirectURL)
		log.Println("Waiting for consent")
		if _, err := tok.Wait(ctx); err != nil {
			panic(fmt.Errorf("tok.Wait failed: %w", err))
		}
	}

	labels := []string{}
	if *label != "" {
		labels = []string{*label}
	}

	model := llm.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	retriever := assistant.NewRetriever(gservice.NewGmail(tok), assistant.RetrieverOptions{
		LabelIDs:   labels,
		MaxResults: *maxResults,
		Format:     format.Options{HTMLFallback: *htmlFallback},
	})
	asst := assistant.New(llm.NewExtractor(model), retriever, llm.NewSynthesizer(model))

	if *enableStdio {
		log.Println("Starting stdio transport")
		if err := tool.NewServer(asst).Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			log.Println(fmt.Errorf("srv.Run failed: %w", err))
		}
		return
	}

	res, err := asst.Ask(ctx, *question)
	if err != nil {
		panic(fmt.Errorf("asst.Ask failed: %w", err))
	}

	fmt.Println(res.Answer)
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting http server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("HTTP server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr string) net.Listener {
	if httpAddr == "" {
		panic("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func setupLogger(quiet bool, logFile string) func() {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if quiet {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	return func() {}
}

func openBrowser(url string) {
	url = fmt.Sprintf("%s?redirect=1", url)
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please copy and open link in the browser: %s\n", err, url)
	}
}
