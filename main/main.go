// main.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Command line tool for building and querying DAWG dictionaries
// and for generating moves on a board

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	skrafl "github.com/vthorsteinsson/skrafldawg"
)

const usage = `Usage: skrafl [-config file] <command> [options] [arguments]

Commands:
  build    Build a binary DAWG from a word list
  find     Check whether words are in a vocabulary
  match    List the words matching a pattern, '?' being a wildcard
  permute  List the words that can be formed from a rack
  moves    List the best moves for a rack on a board
`

func fail(err error) {
	log.Error().Err(err).Msg("failed")
	os.Exit(1)
}

// openVocabulary returns either a DAWG file with an explicitly given
// locale, or a configured vocabulary from the registry
func openVocabulary(cfg *skrafl.Config, name, dawgFile, locale string) (*skrafl.Vocabulary, error) {
	if dawgFile != "" {
		loc, err := skrafl.BuiltinLocale(locale)
		if err != nil {
			return nil, err
		}
		dawg, err := skrafl.LoadDawg(dawgFile, loc.Alphabet, cfg.DawgOptions())
		if err != nil {
			return nil, err
		}
		return &skrafl.Vocabulary{Name: dawgFile, Locale: loc, Dawg: dawg}, nil
	}
	vc, ok := cfg.Vocabularies[name]
	if !ok {
		return nil, fmt.Errorf("unknown vocabulary '%s'", name)
	}
	// Load just the one vocabulary that is needed
	single := *cfg
	single.Vocabularies = map[string]skrafl.VocabularyConfig{name: vc}
	reg, err := skrafl.LoadRegistry(context.Background(), &single)
	if err != nil {
		return nil, err
	}
	v, _ := reg.Get(name)
	return v, nil
}

// vocabFlags adds the flags that select a vocabulary to a FlagSet
func vocabFlags(fs *flag.FlagSet) (name, dawgFile, locale *string) {
	name = fs.String("vocab", "otcwl", "Configured vocabulary to use")
	dawgFile = fs.String("dawg", "", "Binary DAWG file to use instead of a configured vocabulary")
	locale = fs.String("locale", "en_US", "Locale of the -dawg file")
	return
}

func runBuild(cfg *skrafl.Config, args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	locale := fs.String("locale", "en_US", "Locale of the word list")
	sortInput := fs.Bool("sort", false, "Sort and de-duplicate the word list first")
	output := fs.String("o", "", "Output binary DAWG file (default: input with .bin.dawg suffix)")
	textOutput := fs.String("text", "", "Also write the graph in text form to this file")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("build requires one word list file")
	}
	input := fs.Arg(0)
	loc, err := skrafl.BuiltinLocale(*locale)
	if err != nil {
		return err
	}
	builder, err := skrafl.BuildFromWordListFile(input, loc.Alphabet, *sortInput)
	if err != nil {
		return err
	}
	data, err := builder.Pack()
	if err != nil {
		return err
	}
	outName := *output
	if outName == "" {
		outName = strings.TrimSuffix(input, ".txt") + ".bin.dawg"
	}
	if err := os.WriteFile(outName, data, 0o644); err != nil {
		return err
	}
	if *textOutput != "" {
		f, err := os.Create(*textOutput)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f)
		if err := builder.WriteText(w); err != nil {
			f.Close()
			return err
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.Info().
		Str("file", outName).
		Int("words", builder.NumWords()).
		Int("nodes", builder.NumNodes()).
		Int("edges", builder.NumEdges()).
		Int("bytes", len(data)).
		Msg("dawg built")
	return nil
}

func runQuery(cfg *skrafl.Config, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	name, dawgFile, locale := vocabFlags(fs)
	minLen := fs.Int("min", 2, "Minimum word length for permute")
	_ = fs.Parse(args)
	vocab, err := openVocabulary(cfg, *name, *dawgFile, *locale)
	if err != nil {
		return err
	}
	for _, arg := range fs.Args() {
		arg = strings.ToLower(arg)
		switch command {
		case "find":
			fmt.Printf("%s: %v\n", arg, vocab.Dawg.Find(arg))
		case "match":
			fmt.Printf("%s: %s\n", arg, strings.Join(vocab.Dawg.FindMatches(arg), " "))
		case "permute":
			fmt.Printf("%s: %s\n", arg, strings.Join(vocab.Dawg.Permute(arg, *minLen), " "))
		}
	}
	return nil
}

// readBoard reads a board file of BoardSize lines; a missing
// file name means an empty board
func readBoard(fileName string) ([]string, error) {
	if fileName == "" {
		return nil, nil
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rows = append(rows, scanner.Text())
	}
	return rows, scanner.Err()
}

func runMoves(cfg *skrafl.Config, args []string) error {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	name, dawgFile, locale := vocabFlags(fs)
	boardFile := fs.String("board", "", "Board file with 15 rows of 15 characters")
	rack := fs.String("rack", "", "Rack, '?' being a blank tile (default: random)")
	num := fs.Int("n", 10, "Number of moves to list")
	robotName := fs.String("robot", "highscore", "Robot that picks a move")
	common := fs.String("common", "", "Vocabulary that restricts the weaker robots")
	asJSON := fs.Bool("json", false, "Output the moves as JSON")
	scoreDiff := fs.Int("diff", 0, "Score of the player to move minus the opponent's")
	_ = fs.Parse(args)
	vocab, err := openVocabulary(cfg, *name, *dawgFile, *locale)
	if err != nil {
		return err
	}
	layout, err := cfg.BoardLayout()
	if err != nil {
		return err
	}
	rows, err := readBoard(*boardFile)
	if err != nil {
		return err
	}
	board, err := skrafl.ParseBoard(rows, layout, vocab.Locale.TileSet)
	if err != nil {
		return err
	}
	var r *skrafl.Rack
	if *rack == "" {
		r = skrafl.NewBag(vocab.Locale.TileSet).DrawRack()
	} else if r, err = skrafl.NewRack(strings.ToLower(*rack), vocab.Locale.TileSet); err != nil {
		return err
	}
	var commonDawg *skrafl.Dawg
	if *common != "" {
		cv, err := openVocabulary(cfg, *common, "", "")
		if err != nil {
			return err
		}
		commonDawg = cv.Dawg
	}
	robot, err := skrafl.RobotByName(*robotName, commonDawg)
	if err != nil {
		return err
	}
	state := skrafl.NewState(
		vocab.Dawg, vocab.Locale.TileSet, board, r,
		skrafl.ExchangeForbidden(vocab.Locale.TileSet, board),
	)
	state.ScoreDiff = *scoreDiff
	moves := state.ScoredMoves(*num)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(moves)
	}
	fmt.Printf("%v", state)
	for i, move := range moves {
		fmt.Printf("%3d. %v\n", i+1, move)
	}
	fmt.Printf("Robot '%s' plays: %v\n", *robotName, robot.GenerateMove(state))
	return nil
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg, err := skrafl.LoadConfig(*configFile)
	if err != nil {
		fail(err)
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command, args := flag.Arg(0), flag.Args()[1:]
	switch command {
	case "build":
		err = runBuild(cfg, args)
	case "find", "match", "permute":
		err = runQuery(cfg, command, args)
	case "moves":
		err = runMoves(cfg, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}
