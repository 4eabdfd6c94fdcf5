package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/heifcore/heif"
	"github.com/heifcore/heif/bmff"
)

const version = "0.1.0"

func prettyPrint(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %s>", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "\t"); err != nil {
		return string(raw)
	}
	return pretty.String()
}

type dumpSummary struct {
	File  string                  `json:"file"`
	Info  heif.FileInformation    `json:"info"`
	Items map[uint32]*heif.Item   `json:"items"`
}

func dumpFile(path string) error {
	r, err := heif.LoadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer r.Close()

	info, err := r.FileInformation()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	summary := dumpSummary{File: path, Info: info, Items: map[uint32]*heif.Item{}}
	for _, id := range info.MasterImageIDs {
		item, err := r.ItemByID(id)
		if err != nil {
			continue
		}
		summary.Items[id] = item
	}

	fmt.Println(prettyPrint(summary))
	return nil
}

func dumpGrid(path string) error {
	r, err := heif.LoadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer r.Close()

	items, err := r.ItemListByType(bmff.ItemTypeGrid)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, item := range items {
		g, err := r.GridItem(item.ID)
		if err != nil {
			log.Printf("%s: item %d: %v", path, item.ID, err)
			continue
		}
		fmt.Println(prettyPrint(g))
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "heifdump",
		Short: "Inspects HEIF/ISOBMFF containers",
		Long:  "heifdump parses one or more HEIF files and prints their box/item structure",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("heifdump " + version)
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Dumps brand, item catalogue, and feature flags as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var firstErr error
			for _, path := range args {
				if err := dumpFile(path); err != nil {
					log.Println(err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}

	gridCmd := &cobra.Command{
		Use:   "grid [paths...]",
		Short: "Prints the grid layout of any grid items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var firstErr error
			for _, path := range args {
				if err := dumpGrid(path); err != nil {
					log.Println(err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}

	rootCmd.AddCommand(versionCmd, dumpCmd, gridCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
