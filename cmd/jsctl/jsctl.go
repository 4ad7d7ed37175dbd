package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"

	"github.com/openseis/javaseis/dataset"
	"github.com/openseis/javaseis/format"
)

func main() {
	parser := argparse.NewParser("jsctl", "a tool for inspecting and manipulating JavaSeis datasets")

	logFile := parser.String("l", "logfile",
		&argparse.Options{Help: "log file name (default stderr)"})

	createCmd := parser.NewCommand("create", "creates a new dataset")
	createPath := createCmd.String("p", "path",
		&argparse.Options{Required: true, Help: "dataset directory to create"})
	createLengths := createCmd.IntList("n", "length",
		&argparse.Options{Required: true, Help: "axis length, repeated once per dimension (3 to 5 times)"})
	createFormat := createCmd.Selector("f", "format", []string{"FLOAT", "COMPRESSED_INT16"},
		&argparse.Options{Default: "FLOAT", Help: "trace sample format"})
	createSecondaries := createCmd.StringList("s", "secondary",
		&argparse.Options{Help: "secondary storage root, repeatable"})

	infoCmd := parser.NewCommand("info", "prints dataset metadata")
	infoPath := infoCmd.String("p", "path",
		&argparse.Options{Required: true, Help: "dataset directory"})

	copyCmd := parser.NewCommand("copy", "copies a dataset frame by frame")
	copySrc := copyCmd.String("i", "input",
		&argparse.Options{Required: true, Help: "source dataset"})
	copyDst := copyCmd.String("o", "output",
		&argparse.Options{Required: true, Help: "destination dataset"})

	emptyCmd := parser.NewCommand("empty", "deletes bulk data, keeping metadata")
	emptyPath := emptyCmd.String("p", "path",
		&argparse.Options{Required: true, Help: "dataset directory"})

	removeCmd := parser.NewCommand("remove", "deletes a dataset and its extent directories")
	removePath := removeCmd.String("p", "path",
		&argparse.Options{Required: true, Help: "dataset directory"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Println(parser.Usage(err))
		os.Exit(1)
	}

	lf, err := configureLogging(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error configuring logging: %s\n", err)
		os.Exit(1)
	}
	if lf != nil {
		defer lf.Close()
	}

	switch {
	case createCmd.Happened():
		err = runCreate(*createPath, *createLengths, *createFormat, *createSecondaries)
	case infoCmd.Happened():
		err = runInfo(*infoPath)
	case copyCmd.Happened():
		err = dataset.Copy(*copySrc, *copyDst)
	case emptyCmd.Happened():
		err = runEmpty(*emptyPath)
	case removeCmd.Happened():
		err = dataset.Remove(*removePath)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "jsctl: %s\n", err)
		os.Exit(1)
	}
}

func runCreate(path string, lengths []int, formatName string, secondaries []string) error {
	tf, err := format.ParseTraceFormat(formatName)
	if err != nil {
		return err
	}

	axisLengths := make([]int64, len(lengths))
	for i, n := range lengths {
		axisLengths[i] = int64(n)
	}

	opts := []dataset.CreateOption{
		dataset.WithAxisLengths(axisLengths...),
		dataset.WithTraceFormat(tf),
	}
	if len(secondaries) > 0 {
		opts = append(opts, dataset.WithSecondaries(secondaries...))
	}

	ds, err := dataset.Create(path, opts...)
	if err != nil {
		return err
	}

	return ds.Close()
}

func runInfo(path string) error {
	ds, err := dataset.Open(path)
	if err != nil {
		return err
	}
	defer ds.Close()

	fmt.Printf("dataset:      %s\n", ds.Path())
	fmt.Printf("name:         %s\n", ds.Name())
	fmt.Printf("data type:    %s\n", ds.DataType())
	fmt.Printf("trace format: %s\n", ds.TraceFormat())
	fmt.Printf("byte order:   %s\n", ds.ByteOrder())
	fmt.Printf("mapped:       %t\n", ds.Mapped())
	fmt.Printf("has traces:   %t\n", ds.HasTraces())
	fmt.Printf("header bytes: %d\n", ds.HeaderLength())

	fmt.Println("axes:")
	for k, ax := range ds.Axes() {
		fmt.Printf("  %d: %-10s len=%-8d logical=%d:%d physical=%g:%g units=%s domain=%s\n",
			k+1, ax.Label, ax.Length, ax.LogicalOrigin, ax.LogicalDelta,
			ax.PhysicalOrigin, ax.PhysicalDelta, ax.Units, ax.Domain)
	}

	fmt.Println("trace properties:")
	for _, p := range ds.Schema().Properties() {
		fmt.Printf("  %-10s %-10s count=%-3d offset=%d\n", p.Label, p.Format, p.Count, p.ByteOffset)
	}

	return nil
}

func runEmpty(path string) error {
	ds, err := dataset.OpenForWrite(path)
	if err != nil {
		return err
	}
	defer ds.Close()

	return ds.Empty()
}
