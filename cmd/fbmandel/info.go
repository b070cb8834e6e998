package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fbmandel/internal/display/fbdev"
)

var flagInfoDevice string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show framebuffer geometry and pixel layout",
	Long: `Open the framebuffer, print what it reports and close it again.
Nothing is mapped or drawn.

Examples:
  fbmandel info
  fbmandel info --device /dev/fb1`,
	Run: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&flagInfoDevice, "device", "", "Framebuffer device (default from config)")
}

func runInfo(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	path := cfg.Device
	if cmd.Flags().Changed("device") {
		path = flagInfoDevice
	}

	dev, err := fbdev.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	fmt.Printf("Device:   %s\n", dev.Name())
	if d, ok := dev.(interface{ Driver() string }); ok {
		fmt.Printf("Driver:   %s\n", d.Driver())
	}

	g, err := dev.Geometry()
	if err != nil {
		fmt.Printf("Geometry: unsupported (%v)\n", err)
	} else {
		fmt.Printf("Geometry: %s\n", g)
		fmt.Printf("Memory:   %d bytes per frame\n", g.Bytes())
	}

	if layout, ok := dev.Layout(); ok {
		fmt.Printf("Layout:   %s\n", layout)
	} else {
		fmt.Println("Layout:   unknown (argb will be used unless configured)")
	}
}
