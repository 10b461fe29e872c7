package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"chosenoffset.com/backdrop/internal/config"
	"chosenoffset.com/backdrop/internal/content"
	"chosenoffset.com/backdrop/internal/page"
	ebitenrender "chosenoffset.com/backdrop/internal/render/ebiten"
)

var (
	cfgFile     string
	contentFile string
	seed        int64
	width       int
	height      int
	compact     bool
)

var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Portfolio page with an animated 3D background",
	Long: `Backdrop opens the portfolio in a window: the profile content scrolls
over a field of drifting solids, rings, spirals and particles that follow
the pointer and turn with the scroll position.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "backdrop.yml", "config file path")
	rootCmd.Flags().StringVar(&contentFile, "content", "", "content YAML file (overrides config)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the background (0 = config or time)")
	rootCmd.Flags().IntVar(&width, "width", 0, "window width (0 = config)")
	rootCmd.Flags().IntVar(&height, "height", 0, "window height (0 = config)")
	rootCmd.Flags().BoolVar(&compact, "compact", false, "use the reduced background")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Scene.Seed = seed
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}
	if contentFile != "" {
		cfg.Content = contentFile
	}
	if compact {
		cfg.Scene.ForceCompact = true
	}

	profile := content.Default()
	if cfg.Content != "" {
		log.Printf("Loading content: %s", cfg.Content)
		profile, err = content.Load(cfg.Content)
		if err != nil {
			return fmt.Errorf("failed to load content: %w", err)
		}
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(true)

	pageManager := page.NewManager(renderer, inputMgr, cfg, profile, cfg.Window.Width, cfg.Window.Height)
	defer pageManager.Close()

	log.Println("Starting page...")
	return engine.RunGame(pageManager)
}
