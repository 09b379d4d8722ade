// Command timebeacon-browse discovers timebeacon devices on the local
// network and prints them.
//
// Usage:
//
//	timebeacon-browse [flags]
//
// Flags:
//
//	-timeout duration  How long to browse before exiting (default 10s)
//	-iface string      Restrict browsing to one interface
//	-watch             Keep browsing until interrupted
//
// Examples:
//
//	# Discover beacons for ten seconds
//	timebeacon-browse
//
//	# Watch continuously on a specific interface
//	timebeacon-browse -watch -iface eth0
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/timebeacon/timebeacon-go/pkg/discovery"
	"github.com/timebeacon/timebeacon-go/pkg/version"
)

var (
	timeout time.Duration
	iface   string
	watch   bool
)

func init() {
	flag.DurationVar(&timeout, "timeout", discovery.BrowseTimeout, "How long to browse before exiting")
	flag.StringVar(&iface, "iface", "", "Restrict browsing to one interface")
	flag.BoolVar(&watch, "watch", false, "Keep browsing until interrupted")
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime)

	ctx := context.Background()
	var cancel context.CancelFunc
	if watch {
		ctx, cancel = context.WithCancel(ctx)
	} else {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	// Stop on interrupt in watch mode.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	browser, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{
		Interface: iface,
	})
	if err != nil {
		log.Fatalf("Failed to create browser: %v", err)
	}

	services, err := browser.Browse(ctx)
	if err != nil {
		log.Fatalf("Failed to browse: %v", err)
	}

	log.Printf("Browsing for %s services...", discovery.ServiceTypeBeacon)

	count := 0
	for svc := range services {
		count++
		printBeacon(svc)
	}

	if count == 0 {
		log.Println("No beacons found")
	} else {
		log.Printf("Found %d beacon(s)", count)
	}
}

func printBeacon(svc *discovery.BeaconService) {
	fmt.Printf("\n%s\n", svc.InstanceName)
	fmt.Println(strings.Repeat("-", len(svc.InstanceName)))
	fmt.Printf("  Host:      %s\n", svc.Host)
	fmt.Printf("  Port:      %d\n", svc.Port)
	if len(svc.Addresses) > 0 {
		fmt.Printf("  Addresses: %s\n", strings.Join(svc.Addresses, ", "))
	}
	fmt.Printf("  Run ID:    %s\n", svc.RunID)
	fmt.Printf("  Time:      %s\n", svc.Clock)
	fmt.Printf("  Version:   %s%s\n", svc.Version, versionNote(svc.Version))
	if svc.Model != "" {
		fmt.Printf("  Model:     %s\n", svc.Model)
	}
	if svc.DeviceName != "" {
		fmt.Printf("  Name:      %s\n", svc.DeviceName)
	}
}

// versionNote flags beacons whose advertised firmware version cannot be
// parsed or differs from ours in the major component.
func versionNote(advertised string) string {
	ours, err := version.Parse(version.Current)
	if err != nil {
		return ""
	}

	theirs, err := version.Parse(advertised)
	if err != nil {
		return " (unrecognized)"
	}
	if !ours.Compatible(theirs) {
		return fmt.Sprintf(" (incompatible with %s)", version.Current)
	}
	return ""
}
