package main

import (
	"flag"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/sim"
)

type scenario struct {
	noise   string
	workers int
}

func (s scenario) String() string {
	return fmt.Sprintf("noise=%s workers=%d", s.noise, s.workers)
}

type scenarioResult struct {
	scenario    scenario
	elapsed     time.Duration
	slowest     time.Duration
	peakEffects int
	destroyed   int
	alive       int
	checksum    uint64
	err         error
}

func main() {
	ticks := flag.Int("ticks", 300, "ticks to simulate per scenario")
	spawnEvery := flag.Int("spawn-every", 5, "spawn one effect every N ticks")
	parallel := flag.Int("parallel", 1, "scenarios to run at once")
	workerList := flag.String("workers", fmt.Sprintf("1,2,4,%d", runtime.NumCPU()), "comma separated effect worker counts")
	noiseList := flag.String("noise", "perlin,simplex", "comma separated noise generators")
	seed := flag.Int64("seed", 1, "terrain seed")
	flag.Parse()

	counts, err := parseInts(*workerList)
	if err != nil {
		log.Fatalf("invalid -workers: %v", err)
	}
	base := sim.DefaultConfig()
	base.Seed = *seed

	var sets []scenario
	for _, name := range strings.Split(*noiseList, ",") {
		for _, n := range counts {
			sets = append(sets, scenario{noise: strings.TrimSpace(name), workers: n})
		}
	}

	fmt.Printf("Running %d scenarios (%d at once, %d ticks)\n", len(sets), *parallel, *ticks)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < max(1, *parallel); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(base, sc, *ticks, *spawnEvery)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].scenario.noise != all[j].scenario.noise {
			return all[i].scenario.noise < all[j].scenario.noise
		}
		return all[i].scenario.workers < all[j].scenario.workers
	})

	checksums := make(map[string]uint64)
	diverged := false
	for _, res := range all {
		if res.err != nil {
			fmt.Printf("%s error=%v\n", res.scenario, res.err)
			continue
		}
		perTick := res.elapsed / time.Duration(max(1, *ticks))
		fmt.Printf("%s total=%s tick=%s slowest=%s effects=%d destroyed=%d alive=%d checksum=%016x\n",
			res.scenario, res.elapsed.Round(time.Millisecond), perTick, res.slowest, res.peakEffects, res.destroyed, res.alive, res.checksum)
		if want, ok := checksums[res.scenario.noise]; ok && want != res.checksum {
			diverged = true
		}
		checksums[res.scenario.noise] = res.checksum
	}
	fmt.Printf("Finished in %s\n", time.Since(start).Round(time.Millisecond))
	if diverged {
		log.Fatal("terrain diverged between worker counts")
	}
}

// runScenario fires a fixed rotation of effects across the map and ticks
// the simulation headlessly.
func runScenario(base sim.Config, sc scenario, ticks, spawnEvery int) scenarioResult {
	cfg := base
	cfg.Noise = sc.noise
	cfg.Workers = sc.workers
	res := scenarioResult{scenario: sc}

	s, err := sim.New(cfg, sim.Deps{Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		res.err = err
		return res
	}

	kinds := effect.Kinds()
	start := time.Now()
	for tick := 0; tick < ticks; tick++ {
		if spawnEvery > 0 && tick%spawnEvery == 0 {
			n := tick / spawnEvery
			pos := core.Vec2{
				X: float64((n*97)%cfg.Width) + 0.5,
				Y: float64((n*61)%cfg.Height) + 0.5,
			}
			s.Spawn(kinds[n%len(kinds)], pos)
		}
		s.Tick()
		st := s.Stats()
		res.slowest = max(res.slowest, st.LastTick)
		res.peakEffects = max(res.peakEffects, st.Effects)
	}
	res.elapsed = time.Since(start)

	st := s.Stats()
	res.destroyed = st.Destroyed
	res.alive = st.AliveCells
	res.checksum = checksum(s)
	return res
}

func checksum(s *sim.Sim) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for _, p := range s.Terrain().Batch().Entries() {
		buf[0], buf[1], buf[2], buf[3] = p.Color.R, p.Color.G, p.Color.B, p.Color.A
		h.Write(buf[:])
	}
	return h.Sum64()
}

func parseInts(list string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("worker count %d must be positive", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no worker counts given")
	}
	return out, nil
}
