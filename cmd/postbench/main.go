package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/restful-blog/config"
	"github.com/d60-Lab/restful-blog/internal/model"
	"github.com/d60-Lab/restful-blog/internal/repository"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
	"github.com/d60-Lab/restful-blog/internal/service"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, e := strconv.Atoi(s); e == nil && v > 0 {
			return v
		}
	}
	return def
}

func report(name string, ds []time.Duration) {
	fmt.Printf("%-8s n=%d avg=%v p50=%v p95=%v p99=%v\n", name, len(ds), avg(ds), pct(ds, 0.50), pct(ds, 0.95), pct(ds, 0.99))
}

// 对当前配置的存储做 create/get/list/update/delete 延迟测试
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	repo := must(repository.Open(ctx, cfg))
	defer repo.Close()
	if err := repo.InitSchema(ctx); err != nil {
		panic(err)
	}
	svc := service.NewPostService(repo, sanitize.New())

	// params
	N := envInt("N", 1000)         // posts to create
	WORKERS := envInt("WORKERS", 8) // concurrent writers/readers
	LISTS := envInt("LISTS", 20)   // full list scans
	BODY := envInt("BODY", 2048)   // body size in bytes

	body := make([]byte, BODY)
	for i := range body {
		body[i] = 'a' + byte(i%26)
	}
	html := "<p>" + string(body) + "</p><script>alert(1)</script>"

	var (
		mu      sync.Mutex
		ids     = make([]string, 0, N)
		creates = make([]time.Duration, 0, N)
	)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < WORKERS; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				st := time.Now()
				p, err := svc.Create(ctx, service.PostInput{Title: fmt.Sprintf("bench %d", i), Body: html})
				d := time.Since(st)
				if err != nil {
					panic(err)
				}
				mu.Lock()
				ids = append(ids, p.ID)
				creates = append(creates, d)
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < N; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	gets := timeEach(ids, WORKERS, func(id string) error {
		_, err := svc.Get(ctx, id)
		return err
	})

	lists := make([]time.Duration, 0, LISTS)
	var seen []*model.Post
	for i := 0; i < LISTS; i++ {
		st := time.Now()
		seen = must(svc.List(ctx))
		lists = append(lists, time.Since(st))
	}

	updates := timeEach(ids, WORKERS, func(id string) error {
		_, err := svc.Update(ctx, id, service.PostInput{Title: "updated", Body: html})
		return err
	})
	deletes := timeEach(ids, WORKERS, func(id string) error {
		return svc.Delete(ctx, id)
	})

	fmt.Printf("driver=%s N=%d WORKERS=%d BODY=%d listed=%d\n", cfg.Database.Driver, N, WORKERS, BODY, len(seen))
	report("create", creates)
	report("get", gets)
	report("list", lists)
	report("update", updates)
	report("delete", deletes)
}

func timeEach(ids []string, workers int, fn func(id string) error) []time.Duration {
	var (
		mu  sync.Mutex
		out = make([]time.Duration, 0, len(ids))
		wg  sync.WaitGroup
	)
	jobs := make(chan string)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				st := time.Now()
				if err := fn(id); err != nil {
					panic(err)
				}
				d := time.Since(st)
				mu.Lock()
				out = append(out, d)
				mu.Unlock()
			}
		}()
	}
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	return out
}
