package main

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	getopt "github.com/pborman/getopt/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chronos-tachyon/lfsr"
)

var (
	flagVersion   = false
	flagDebug     = false
	flagTrace     = false
	flagLogStderr = false

	flagModel      = "CRC-32"
	flagModelsFile = ""
	flagList       = false
	flagPoly       = ""
	flagWidth      = UintFlag{0}
	flagInit       = HexFlag{}
	flagXorOut     = HexFlag{}
	flagReflectIn  = false
	flagReflectOut = false

	flagBlockWidth = UintFlag{8}
	flagStrategy   = StrategyFlag{lfsr.DefaultStrategy}
	flagPadding    = PaddingPolicyFlag{lfsr.ReducedWidthPolicy}
	flagFormat     = FormatFlag{lfsr.DefaultFormat}
	flagJobs       = UintFlag{1}

	flagEquations = false
	flagMatrix    = false
	flagVerify    = false

	flagCPUProfile = ""
	flagMemProfile = ""
)

func init() {
	getopt.SetParameters("[<input>...]")

	getopt.FlagLong(&flagVersion, "version", 'V', "print version and exit")

	getopt.FlagLong(&flagDebug, "verbose", 'v', "enable debug logging")
	getopt.FlagLong(&flagTrace, "debug", 'D', "enable debug and trace logging")
	getopt.FlagLong(&flagLogStderr, "log-stderr", 'L', "log JSON to stderr")

	getopt.FlagLong(&flagCPUProfile, "cpu-profile", 0, "CPU profile output file")
	getopt.FlagLong(&flagMemProfile, "mem-profile", 0, "memory profile output file")

	getopt.FlagLong(&flagModel, "model", 'm', "name of a checksum model, e.g. CRC-32, CRC-32C, CRC-64/XZ")
	getopt.FlagLong(&flagModelsFile, "models", 0, "YAML file of additional checksum models")
	getopt.FlagLong(&flagList, "list", 'l', "list the known checksum models and exit")
	getopt.FlagLong(&flagPoly, "poly", 0, "explicit polynomial, in hex (with --width) or as x^N+...+1; overrides --model")
	getopt.FlagLong(&flagWidth, "width", 0, "checksum width N for a hex --poly")
	getopt.FlagLong(&flagInit, "init", 0, "initial register value in hex, for --poly")
	getopt.FlagLong(&flagXorOut, "xorout", 0, "final XOR mask in hex, for --poly")
	getopt.FlagLong(&flagReflectIn, "reflect-in", 0, "consume each input byte least significant bit first, for --poly")
	getopt.FlagLong(&flagReflectOut, "reflect-out", 0, "reflect the register before the final XOR, for --poly")

	getopt.FlagLong(&flagBlockWidth, "block-width", 'w', "number of input bits consumed per matrix step")
	getopt.FlagLong(&flagStrategy, "strategy", 'S', "update strategy; one of default, rows, or tables")
	getopt.FlagLong(&flagPadding, "padding", 'P', "treatment of a final partial block; one of reject or reduced-width")
	getopt.FlagLong(&flagFormat, "format", 'F', "output format; one of text, json, or binary")
	getopt.FlagLong(&flagJobs, "jobs", 'j', "number of partitions to checksum concurrently")

	getopt.FlagLong(&flagEquations, "equations", 'E', "print the XOR equations of the transition matrix").SetGroup("mode")
	getopt.FlagLong(&flagMatrix, "matrix", 'X', "print the transition matrix").SetGroup("mode")
	getopt.FlagLong(&flagVerify, "verify", 0, "verify the model's check value and exit").SetGroup("mode")
}

func main() {
	getopt.Parse()

	if flagVersion {
		fmt.Println(strings.TrimSpace(version))
		os.Exit(0)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldUnit = time.Second
	zerolog.DurationFieldInteger = false
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if flagDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if flagTrace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	switch {
	case flagLogStderr:
		// do nothing

	default:
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	var extra []lfsr.Model
	if flagModelsFile != "" {
		list, err := lfsr.LoadModels(flagModelsFile)
		if err != nil {
			log.Logger.Fatal().
				Str("filename", flagModelsFile).
				Err(err).
				Msg("lfsr.LoadModels failed")
		}
		extra = list
	}

	if flagList {
		doList(os.Stdout, extra)
		return
	}

	model := resolveModel(extra)
	log.Logger.Debug().
		Str("model", model.Name).
		Uint("width", model.Width).
		Uint("blockWidth", flagBlockWidth.Value).
		Msg("resolved checksum model")

	if flagCPUProfile != "" {
		f, err := os.OpenFile(flagCPUProfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			log.Logger.Fatal().
				Str("filename", flagCPUProfile).
				Err(err).
				Msg("os.OpenFile(O_WRONLY|O_CREATE|O_TRUNC) failed")
		}

		defer func() {
			err := f.Close()
			if err != nil {
				log.Logger.Error().
					Str("filename", flagCPUProfile).
					Err(err).
					Msg("failed to Close CPU profiling output file")
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			log.Logger.Fatal().
				Err(err).
				Msg("pprof.StartCPUProfile failed")
		}

		defer pprof.StopCPUProfile()
	}

	switch {
	case flagVerify:
		doVerify(model)
	case flagEquations:
		doEquations(os.Stdout, model)
	case flagMatrix:
		doMatrix(os.Stdout, model)
	default:
		doChecksums(os.Stdout, model, getopt.Args())
	}

	if flagMemProfile != "" {
		f, err := os.OpenFile(flagMemProfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			log.Logger.Fatal().
				Str("filename", flagMemProfile).
				Err(err).
				Msg("failed to Open memory profiling output file")
		}
		err = pprof.Lookup("allocs").WriteTo(f, 0)
		if err != nil {
			_ = f.Close()
			log.Logger.Fatal().
				Str("filename", flagMemProfile).
				Err(err).
				Msg("failed to Write memory profile to output file")
		}
		err = f.Close()
		if err != nil {
			log.Logger.Fatal().
				Str("filename", flagMemProfile).
				Err(err).
				Msg("failed to Close memory profile output file")
		}
	}
}

func resolveModel(extra []lfsr.Model) lfsr.Model {
	if flagPoly == "" {
		model, found := lfsr.FindModel(extra, flagModel)
		if !found {
			log.Logger.Fatal().
				Str("model", flagModel).
				Msg("unknown checksum model; try --list")
		}
		return model
	}

	model := lfsr.Model{
		Name:       "custom",
		Width:      flagWidth.Value,
		Init:       flagInit.Value,
		ReflectIn:  flagReflectIn,
		ReflectOut: flagReflectOut,
		XorOut:     flagXorOut.Value,
	}

	if strings.Contains(flagPoly, "+") {
		poly, err := lfsr.ParsePolynomial(flagPoly)
		if err != nil {
			log.Logger.Fatal().
				Str("poly", flagPoly).
				Err(err).
				Msg("lfsr.ParsePolynomial failed")
		}
		if model.Width == 0 {
			model.Width = poly.Width()
		}
		if poly.Width() > 64 || poly.Width() != model.Width {
			log.Logger.Fatal().
				Str("poly", flagPoly).
				Uint("degree", poly.Width()).
				Uint("width", model.Width).
				Msg("polynomial degree must equal --width and be at most 64")
		}
		model.Poly = poly.Uint64()
	} else {
		var value HexFlag
		if err := value.Set(flagPoly, nil); err != nil {
			log.Logger.Fatal().
				Str("poly", flagPoly).
				Err(err).
				Msg("failed to parse --poly as hexadecimal")
		}
		model.Poly = value.Value
	}

	if err := model.Validate(); err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("invalid checksum model")
	}
	return model
}

func engineOptions() []lfsr.Option {
	return []lfsr.Option{
		lfsr.WithTracers(lfsr.Log(log.Logger)),
		lfsr.WithStrategy(flagStrategy.Value),
		lfsr.WithPaddingPolicy(flagPadding.Value),
	}
}

func buildMatrix(model lfsr.Model) *lfsr.Matrix {
	poly, err := model.Polynomial()
	if err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("lfsr.Model.Polynomial failed")
	}
	m, err := lfsr.Build(poly, flagBlockWidth.Value, lfsr.WithTracers(lfsr.Log(log.Logger)))
	if err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("lfsr.Build failed")
	}
	return m
}

func doList(w io.Writer, extra []lfsr.Model) {
	list := append(lfsr.Models(), extra...)
	for _, m := range list {
		fmt.Fprintf(w, "%-20s width=%-2d poly=%#0*x init=%#0*x refin=%-5t refout=%-5t xorout=%#0*x check=%v\n",
			m.Name, m.Width,
			hexDigits(m.Width)+2, m.Poly,
			hexDigits(m.Width)+2, m.Init,
			m.ReflectIn, m.ReflectOut,
			hexDigits(m.Width)+2, m.XorOut,
			m.Check)
	}
}

func doVerify(model lfsr.Model) {
	if err := model.Verify(flagBlockWidth.Value); err != nil {
		log.Logger.Fatal().
			Str("model", model.Name).
			Err(err).
			Msg("check value mismatch")
	}
	log.Logger.Info().
		Str("model", model.Name).
		Uint("blockWidth", flagBlockWidth.Value).
		Str("check", model.Check.String()).
		Msg("OK")
}

func doEquations(w io.Writer, model lfsr.Model) {
	m := buildMatrix(model)
	set := lfsr.Emit(m, lfsr.WithTracers(lfsr.Log(log.Logger)))
	if err := lfsr.WriteEquations(w, set, flagFormat.Value); err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("lfsr.WriteEquations failed")
	}
}

func doMatrix(w io.Writer, model lfsr.Model) {
	m := buildMatrix(model)
	if err := lfsr.WriteMatrix(w, m, flagFormat.Value); err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("lfsr.WriteMatrix failed")
	}
}

func doChecksums(w io.Writer, model lfsr.Model, args []string) {
	if flagStrategy.Value == lfsr.TableStrategy && flagBlockWidth.Value%8 != 0 {
		log.Logger.Fatal().
			Uint("blockWidth", flagBlockWidth.Value).
			Msg("--strategy=tables requires a block width that is a multiple of 8")
	}

	e, err := model.Engine(flagBlockWidth.Value, engineOptions()...)
	if err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("lfsr.Model.Engine failed")
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		var r io.Reader = os.Stdin
		var f *os.File
		if name != "-" {
			f, err = os.Open(name)
			if err != nil {
				log.Logger.Fatal().
					Str("filename", name).
					Err(err).
					Msg("os.Open failed")
			}
			r = f
		}

		csum := checksumOne(e, r, name)

		if f != nil {
			if err := f.Close(); err != nil {
				log.Logger.Error().
					Str("filename", name).
					Err(err).
					Msg("failed to Close input file")
			}
		}

		writeChecksum(w, model, name, csum)
	}
}

func checksumOne(e *lfsr.Engine, r io.Reader, name string) lfsr.Vector {
	csum, err := computeChecksum(e, r, flagJobs.Value)
	if err != nil {
		log.Logger.Fatal().
			Str("filename", name).
			Err(err).
			Msg("failed to compute checksum")
	}
	return csum
}

// computeChecksum streams r through a Hash when it can.  A Hash always
// reduces the final partial block, so RejectPartialPolicy and multiple jobs
// take the whole-buffer path instead.
func computeChecksum(e *lfsr.Engine, r io.Reader, jobs uint) (lfsr.Vector, error) {
	useHash := jobs <= 1 &&
		e.Matrix().BlockWidth()%8 == 0 &&
		e.PaddingPolicy() == lfsr.ReducedWidthPolicy

	if useHash {
		h := e.NewHash()
		if _, err := io.Copy(h, r); err != nil {
			return lfsr.Vector{}, err
		}
		return h.Checksum(), nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return lfsr.Vector{}, err
	}
	state, err := e.UpdateParallel(e.Init(), data, jobs)
	if err != nil {
		return lfsr.Vector{}, err
	}
	return e.Finalize(state), nil
}

type checksumJSON struct {
	Model    string        `json:"model"`
	File     string        `json:"file"`
	Checksum lfsr.Checksum `json:"checksum"`
}

func writeChecksum(w io.Writer, model lfsr.Model, name string, csum lfsr.Vector) {
	var err error
	switch flagFormat.Value {
	case lfsr.BinaryFormat:
		_, err = w.Write(csum.Bytes())

	case lfsr.JSONFormat:
		var raw []byte
		raw, err = json.Marshal(checksumJSON{
			Model:    model.Name,
			File:     name,
			Checksum: lfsr.Checksum(csum.Uint64()),
		})
		if err == nil {
			raw = append(raw, '\n')
			_, err = w.Write(raw)
		}

	default:
		_, err = fmt.Fprintf(w, "%0*x  %s\n", hexDigits(model.Width), csum.Uint64(), name)
	}
	if err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("failed to write checksum")
	}
}

func hexDigits(width uint) int {
	return int((width + 3) / 4)
}
