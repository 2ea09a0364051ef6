// Command dump2cfg post-processes LAMMPS dump files from grain-boundary
// runs: conversion to AtomEye CFG, grain-boundary energy calculation,
// and excess-energy histograms. Input files may be gzipped or bzip2'ed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wwmeng/gosam/internal/dump"
	"github.com/wwmeng/gosam/internal/gbdb"
)

var (
	histOut = flag.String("hist", "", "write the excess-energy histogram to this .xy file (single dump argument)")
	plotOut = flag.String("plot", "", "also render the histogram to this image file (with -hist)")
	dbPath  = flag.String("db", "", "append computed GB energies to this SQLite database")
	energy  = flag.Bool("energy", false, "print GB energy for each dump argument")
)

const usage = `Usage:
  dump2cfg lammps_dump output.cfg
      convert a LAMMPS dump file to an AtomEye CFG file

  dump2cfg -hist histogram.xy [-plot histogram.png] lammps_dump
      write the GB excess-energy-vs-z histogram

  dump2cfg -energy [-db results.sqlite] lammps_dump1 [lammps_dump2 ...]
      calculate GB energies [J/m2]
`

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()

	var store *gbdb.Store
	if *dbPath != "" {
		var err error
		store, err = gbdb.Open(*dbPath)
		if err != nil {
			log.Fatalf("dump2cfg: %v", err)
		}
		defer store.Close()
	}

	switch {
	case *histOut != "":
		if len(args) != 1 {
			flag.Usage()
			os.Exit(2)
		}
		runHistogram(args[0], store)
	case *energy:
		if len(args) == 0 {
			flag.Usage()
			os.Exit(2)
		}
		for _, path := range args {
			runEnergy(path, store, len(args) > 1)
		}
	case len(args) == 2:
		if err := dump.Convert(args[0], args[1]); err != nil {
			log.Fatalf("dump2cfg: %v", err)
		}
		log.Printf("wrote %s", args[1])
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runHistogram(path string, store *gbdb.Store) {
	res, err := dump.GBEnergy(path)
	if err != nil {
		log.Fatalf("dump2cfg: %v", err)
	}
	if err := dump.WriteHistogram(res, *histOut); err != nil {
		log.Fatalf("dump2cfg: %v", err)
	}
	if *plotOut != "" {
		if err := dump.PlotHistogram(res, *plotOut); err != nil {
			log.Fatalf("dump2cfg: %v", err)
		}
	}
	record(store, res)
	log.Printf("%s: %d atoms, mean energy %.4f eV (stddev %.4f)",
		path, res.NAtoms, res.MeanAtomEnergy, res.StdAtomEnergy)
	log.Printf("GB energy: %.4f J/m2", res.GBEnergy)
}

func runEnergy(path string, store *gbdb.Store, multi bool) {
	res, err := dump.GBEnergy(path)
	if err != nil {
		log.Fatalf("dump2cfg: %v", err)
	}
	record(store, res)
	if multi {
		fmt.Printf("%s\t%f\n", path, res.GBEnergy)
	} else {
		fmt.Printf("%f\n", res.GBEnergy)
	}
}

func record(store *gbdb.Store, res *dump.EnergyResult) {
	if store == nil {
		return
	}
	if err := store.RecordEnergy(res.File, res.NAtoms, res.Area, res.GBEnergy); err != nil {
		log.Fatalf("dump2cfg: %v", err)
	}
}
