package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/samuelfneumann/linearpg/agent"
	_ "github.com/samuelfneumann/linearpg/agent/linear/discrete/a2c"
	_ "github.com/samuelfneumann/linearpg/agent/linear/discrete/ppo"
	_ "github.com/samuelfneumann/linearpg/agent/linear/discrete/trpo"
	"github.com/samuelfneumann/linearpg/environment/envconfig"
	"github.com/samuelfneumann/linearpg/experiment"
	"github.com/samuelfneumann/linearpg/experiment/trackers"
	"github.com/samuelfneumann/linearpg/utils/matutils"
	"github.com/samuelfneumann/linearpg/utils/progressbar"
	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/stat"
)

// Defaults used when no config file is given
const (
	defaultEpisodes int    = 100
	defaultSeed     uint64 = 1
	defaultCutoff   int    = 500
	barWidth        int    = 40
)

// algorithmFlag is a flag.Value for a registered agent type
type algorithmFlag struct {
	Type agent.Type
}

func (a *algorithmFlag) String() string {
	return string(a.Type)
}

func (a *algorithmFlag) Set(s string) error {
	for _, t := range agent.Registered() {
		if string(t) == s {
			a.Type = t
			return nil
		}
	}
	return errors.New("unknown algorithm: " + s)
}

func main() {
	algorithm := algorithmFlag{Type: agent.TRPOLinear}
	var (
		configPath string
		episodes   int
		seed       uint64
		envName    string
		returns    string
		progress   bool
		quiet      bool
		printW     bool
	)
	flag.StringVar(&configPath, "config", "", "experiment YAML or JSON file")
	flag.Var(&algorithm, "algorithm", fmt.Sprintf("agent type, one of %v",
		agent.Registered()))
	flag.IntVar(&episodes, "episodes", defaultEpisodes, "episodes to run")
	flag.Uint64Var(&seed, "seed", defaultSeed, "random seed")
	flag.StringVar(&envName, "env", string(envconfig.Cartpole),
		"environment, Cartpole or Constant")
	flag.StringVar(&returns, "returns", "", "file to save episodic "+
		"returns to")
	flag.BoolVar(&progress, "progress", false, "display a progress bar "+
		"instead of per-episode logs")
	flag.BoolVar(&quiet, "quiet", false, "disable per-episode logs")
	flag.BoolVar(&printW, "weights", false, "print the learned weights "+
		"after training")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Build the experiment config, with flags overriding the file
	var c experiment.Config
	if configPath != "" {
		var err error
		if c, err = experiment.Load(configPath); err != nil {
			log.Fatalf("main: %v", err)
		}
	} else {
		c = experiment.Config{
			Episodes: defaultEpisodes,
			Seed:     defaultSeed,
			EnvConf: envconfig.NewConfig(envconfig.Cartpole,
				defaultCutoff),
		}
		set["algorithm"] = true
	}

	if set["algorithm"] && c.AgentConf.Type != algorithm.Type {
		conf, err := agent.NewConfig(algorithm.Type)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		c.AgentConf = agent.NewTypedConfig(conf)
	}
	if set["episodes"] {
		c.Episodes = episodes
	}
	if set["seed"] {
		c.Seed = seed
	}
	if set["env"] {
		c.EnvConf.Environment = envconfig.EnvName(envName)
		if c.EnvConf.Reward == 0 {
			c.EnvConf.Reward = 1
		}
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if quiet || progress {
		logger.SetOutput(io.Discard)
	}

	var returnTracker *trackers.Return
	var t []trackers.Tracker
	if returns != "" {
		returnTracker = trackers.NewReturn(returns)
		t = append(t, returnTracker)
	}

	exp, err := c.CreateExp(logger, t...)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	var bar *progressbar.ManualProgressBar
	if progress {
		bar = progressbar.NewManualProgressBar(os.Stderr, barWidth,
			c.Episodes)
	}

	episodeReturns := make([]float64, 0, c.Episodes)
	for i := 0; i < c.Episodes; i++ {
		summary, err := exp.RunEpisode()
		if err != nil {
			log.Fatalf("main: episode %d: %v", i+1, err)
		}
		episodeReturns = append(episodeReturns, summary.Return)

		if bar != nil {
			bar.Increment()
			bar.Display(fmt.Sprintf("return=%.3f", summary.Return))
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if err := exp.Save(); err != nil {
		log.Fatalf("main: %v", err)
	}

	mean, std := stat.MeanStdDev(episodeReturns, nil)
	fmt.Printf("%v on %v: %d episodes, mean return %.3f ± %.3f\n",
		c.AgentConf.Type, c.EnvConf.Environment, len(episodeReturns), mean,
		std)

	if printW {
		printWeights(exp)
	}
}

// printWeights prints the learned weights of the experiment's agent
func printWeights(exp experiment.Experiment) {
	online, ok := exp.(*experiment.Online)
	if !ok {
		return
	}
	w, ok := online.Agent.(agent.Weighted)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: agent %T does not report weights\n",
			online.Agent)
		return
	}

	weights := w.Weights()
	keys := maps.Keys(weights)
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%v:\n%v\n", key, matutils.Format(weights[key]))
	}
}
