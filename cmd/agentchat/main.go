package main

import (
	"agenthub/pkg/agentclient"
	"agenthub/pkg/agentstream"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configPath string
	serverFlag string
	tokenFlag  string
)

func main() {
	root := &cobra.Command{
		Use:           "agentchat",
		Short:         "Chat with agenthub agents from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ~/.agentchat.yaml)")
	root.PersistentFlags().StringVar(&serverFlag, "server", "", "agenthub base URL")
	root.PersistentFlags().StringVar(&tokenFlag, "token", "", "access token, overrides the stored one")

	root.AddCommand(loginCmd())
	root.AddCommand(agentsCmd())
	root.AddCommand(chatCmd())

	if err := root.Execute(); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return defaultConfigPath()
}

// session bundles the loaded config with a client built from it
type session struct {
	path   string
	cfg    *clientConfig
	client *agentclient.Client
}

func openSession() (*session, error) {
	path := resolveConfigPath()
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}

	var opts []agentclient.Option
	if cfg.Token != "" {
		opts = append(opts, agentclient.WithToken(cfg.Token))
	}
	if cfg.ClientID != "" {
		opts = append(opts, agentclient.WithClientID(cfg.ClientID))
	}
	return &session{path: path, cfg: cfg, client: agentclient.New(cfg.Server, opts...)}, nil
}

// persistClientID stores the id the server assigned to an anonymous caller
func (s *session) persistClientID() {
	id := s.client.ClientID()
	if id == "" || id == s.cfg.ClientID || s.cfg.Token != "" {
		return
	}
	s.cfg.ClientID = id
	if err := saveConfig(s.path, s.cfg); err != nil {
		color.Yellow("Warning: could not save client id: %v\n", err)
	}
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			if email == "" {
				email = s.cfg.Email
			}
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			token, err := s.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			s.cfg.Token = token
			s.cfg.Email = email
			if err := saveConfig(s.path, s.cfg); err != nil {
				return err
			}
			color.Green("✅ Logged in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agents you may chat with",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			agents, err := s.client.Agents(cmd.Context())
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				fmt.Println("No agents available.")
				return nil
			}
			cyan := color.New(color.FgCyan)
			for _, a := range agents {
				cyan.Printf("%-20s", a.Path)
				fmt.Printf(" %s", a.Name)
				if a.Description != "" {
					fmt.Printf(" - %s", a.Description)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

type chatOptions struct {
	agentPath      string
	conversationID string
	files          []string
	audio          string
	videoAnalysis  bool
}

func chatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message, or start an interactive chat when no message is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession()
			if err != nil {
				return err
			}
			if opts.agentPath == "" {
				return errors.New("--agent is required")
			}
			agent, err := s.client.AgentByPath(ctx, opts.agentPath)
			if err != nil {
				return err
			}

			conv := &agentstream.Conversation{ID: opts.conversationID, AgentID: agent.ID}
			if len(args) == 1 {
				return sendTurn(ctx, s, agent, conv, args[0], opts)
			}
			return interactive(ctx, s, agent, conv, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.agentPath, "agent", "a", "", "agent path, e.g. support")
	cmd.Flags().StringVar(&opts.conversationID, "conversation", "", "continue an existing conversation")
	cmd.Flags().StringArrayVarP(&opts.files, "file", "f", nil, "attach a file (repeatable)")
	cmd.Flags().StringVar(&opts.audio, "audio", "", "send an audio recording")
	cmd.Flags().BoolVar(&opts.videoAnalysis, "video-analysis", false, "ask the agent to analyze attached video")
	return cmd
}

func interactive(ctx context.Context, s *session, agent *agentclient.Agent, conv *agentstream.Conversation, opts chatOptions) error {
	green := color.New(color.FgGreen)
	green.Printf("Chatting with %s. Type /exit to quit.\n", agent.Name)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	first := true
	for {
		fmt.Print("> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}
		if line == "/exit" || line == "/quit" {
			return nil
		}

		turnOpts := opts
		if !first {
			// attachments go with the first message only
			turnOpts.files, turnOpts.audio = nil, ""
		}
		if err := sendTurn(ctx, s, agent, conv, line, turnOpts); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			color.Red("Error: %v\n", err)
		}
		first = false
	}
}

func sendTurn(ctx context.Context, s *session, agent *agentclient.Agent, conv *agentstream.Conversation, text string, opts chatOptions) error {
	sess, err := s.client.ResolveSession(ctx, agent.ID, conv.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	s.persistClientID()

	turn := agentclient.Turn{
		WebhookURL:    agent.WebhookURL,
		Message:       text,
		SessionID:     sess.SessionID,
		UserEmail:     s.cfg.Email,
		VideoAnalysis: opts.videoAnalysis,
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	for _, p := range opts.files {
		f, file, err := openAttachment(p)
		if err != nil {
			return err
		}
		closers = append(closers, f)
		turn.Files = append(turn.Files, file)
	}
	if opts.audio != "" {
		f, file, err := openAttachment(opts.audio)
		if err != nil {
			return err
		}
		closers = append(closers, f)
		turn.Audio = &file
	}

	out := newStreamPrinter(os.Stdout)
	_, err = s.client.Send(ctx, conv, turn,
		agentstream.WithUpdate(out.update),
		agentstream.WithNavigate(func(id string) {
			conv.ID = id
		}),
	)
	out.finish()
	if err != nil {
		return err
	}
	if conv.ID != "" && opts.conversationID == "" {
		color.New(color.FgHiBlack).Printf("conversation %s\n", conv.ID)
	}
	return nil
}

func openAttachment(path string) (*os.File, agentclient.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, agentclient.File{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	name := filepath.Base(path)
	return f, agentclient.File{
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Content:     f,
	}, nil
}

// streamPrinter writes only the part of the agent message that has not been
// printed yet, so the reply appears progressively.
type streamPrinter struct {
	w       io.Writer
	printed int
	color   *color.Color
}

func newStreamPrinter(w io.Writer) *streamPrinter {
	return &streamPrinter{w: w, color: color.New(color.FgCyan)}
}

func (p *streamPrinter) update(msg *agentstream.Message) {
	if len(msg.Content) <= p.printed {
		return
	}
	p.color.Fprint(p.w, msg.Content[p.printed:])
	p.printed = len(msg.Content)
}

func (p *streamPrinter) finish() {
	if p.printed > 0 {
		fmt.Fprintln(p.w)
	}
}
