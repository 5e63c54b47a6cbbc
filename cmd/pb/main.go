package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"parkboard/internal/activity"
	"parkboard/internal/clock"
	"parkboard/internal/config"
	"parkboard/internal/db"
	"parkboard/internal/display"
	"parkboard/internal/history"
	"parkboard/internal/kiosk"
	"parkboard/internal/logging"
	"parkboard/internal/migrate"
	"parkboard/internal/schedule"
	"parkboard/internal/server"
	"parkboard/internal/status"
	"parkboard/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pb",
	Short: "Parkboard kiosk",
	Long: `Parkboard polls a remote record store for a user's current itinerary plan
and renders a 4-line trip status: how long until the trip, or on the day
itself the next scheduled activity and a countdown to its slot.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PARKBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().String("config", "", "config file (overrides workspace parkboard.yml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug logging")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(cycleCmd())
	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())
}

func loadConfig() (*config.Config, error) {
	if path := viper.GetString("config"); path != "" {
		return config.FromFile(path)
	}
	return config.Load(viper.GetString("workspace"))
}

func openDB() (*sql.DB, error) {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func buildComposer(cfg *config.Config) (status.Composer, error) {
	src, err := clock.NewSystemSource(cfg.Kiosk.Timezone)
	if err != nil {
		return status.Composer{}, err
	}
	client := store.New(cfg.Store.BaseURL, cfg.Store.APIKey)
	client.Timeout = cfg.StoreTimeout()
	return status.Composer{
		Plans:      client,
		Activities: activity.Lookup{Source: client},
		Clock:      src,
		UserID:     cfg.Kiosk.UserID,
	}, nil
}

func buildEngine(cfg *config.Config, conn *sql.DB) (*kiosk.Engine, error) {
	composer, err := buildComposer(cfg)
	if err != nil {
		return nil, err
	}
	surface := display.Text{Out: os.Stdout, Width: cfg.Kiosk.DisplayWidth}
	log := logging.Setup(viper.GetBool("verbose"))
	return kiosk.New(conn, composer, surface, cfg.PollInterval(), log), nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the kiosk poll loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			engine, err := buildEngine(cfg, conn)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func cycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run a single resolution cycle and print the payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			engine, err := buildEngine(cfg, conn)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				engine.Display = nil
			}
			res, err := engine.Cycle(cmd.Context())
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{
					"state":   res.State,
					"payload": res.Payload,
				})
			}
			return nil
		},
	}
}

func slotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Print the slot schedule table",
		RunE: func(cmd *cobra.Command, args []string) error {
			windows := schedule.Windows()
			if viper.GetBool("json") {
				return printJSON(windows)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Slot", "Window Start", "Assigned Until"})
			for _, w := range windows {
				start, err := schedule.StartMinutes(w.Slot)
				if err != nil {
					return err
				}
				tw.AppendRow(table.Row{w.Slot, minutesLabel(start), minutesLabel(w.Upper)})
			}
			tw.Render()
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			repo := history.Repo{DB: conn}
			items, err := repo.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(items)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"TS", "State", "Line1", "Line2", "Line3", "Line4"})
			for _, c := range items {
				tw.AppendRow(table.Row{c.TS, c.State, c.Line1, c.Line2, c.Line3, c.Line4})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max cycles to list")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the kiosk loop and the monitoring API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			engine, err := buildEngine(cfg, conn)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			handler, err := server.New(server.Config{
				History:  history.Repo{DB: conn},
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: cfg.Server.JWTSecret},
				Log:      engine.Log,
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					engine.Log.Error().Err(err).Msg("kiosk loop exited")
				}
			}()
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			engine.Log.Info().Str("addr", addr).Str("base_path", basePath).Msg("monitoring API listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (overrides config)")
	return cmd
}

func configCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Manage kiosk config"}
	cfgCmd.AddCommand(configInitCmd())
	cfgCmd.AddCommand(configShowCmd())
	return cfgCmd
}

func configInitCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default parkboard.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user-id required")
			}
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(userID)), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user whose plans the kiosk follows")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func minutesLabel(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
