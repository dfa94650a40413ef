// Command forculusdemo wires together an Inserter and an Evaluator to show
// that reporting the same plaintext at least `threshold` times makes it
// recoverable, while fewer reports reveal nothing. It is a demonstration
// program only, not a full collection/aggregation pipeline.
package main

import (
	"bytes"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/lavode/forculus/forculus"
	"github.com/lavode/forculus/record"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	params := forculus.Params{K: 3, E: forculus.DefaultEpoch}

	var shares record.SliceSink
	ins, err := forculus.NewInserter(params, &shares, forculus.WithInserterLogger(logger))
	if err != nil {
		log.Fatalf("new inserter: %v", err)
	}

	reports := []string{"hello", "hello", "world", "hello"}
	for _, p := range reports {
		if err := ins.Insert([]byte(p)); err != nil {
			log.Fatalf("insert %q: %v", p, err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("iv,ctxt,eval_point,eval_data\n")

	writer := record.NewCSVSink(&buf)
	for _, rec := range shares.Records {
		if err := writer.Emit(rec); err != nil {
			log.Fatalf("write share record: %v", err)
		}
	}

	source := record.NewCSVSource(&buf)
	ev, err := forculus.NewEvaluator(params, source, forculus.WithEvaluatorLogger(logger))
	if err != nil {
		log.Fatalf("new evaluator: %v", err)
	}

	var results record.SliceResultSink
	if err := ev.ComputeAndEmit(&results); err != nil {
		log.Fatalf("compute and emit: %v", err)
	}

	for _, r := range results.Records {
		fmt.Printf("recovered %q reported %d times\n", r.Plaintext, r.Count)
	}
	fmt.Printf("stats: %+v\n", ev.Stats())
}
