package rateio

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/rateio/pkg/infrastructure/testing"
)

// setupBatch builds documents spread over loads of one carrier, with every
// fifth document repeating a client of its load
func setupBatch(b *testing.B, documents, loads int) (*memory.DocumentRepository, string) {
	b.Helper()
	docs := memory.NewDocumentRepository()
	lines := make([]testhelpers.EmailLine, 0, loads)
	for l := 0; l < loads; l++ {
		lines = append(lines, testhelpers.EmailLine{
			LoadNumber: fmt.Sprintf("%06d", 200000+l),
			Plate:      "abc-1234",
			Freight:    "1.234,56",
		})
	}

	for i := 0; i < documents; i++ {
		client := fmt.Sprintf("CLIENT %d", i)
		if i%5 == 4 {
			client = fmt.Sprintf("CLIENT %d", i-1)
		}
		doc := testhelpers.BuildNFeXML(testhelpers.NFeDocument{
			Invoice:   fmt.Sprintf("%06d", 1000+i),
			AccessKey: fmt.Sprintf("KEY%06d", i),
			Client:    client,
			Carrier:   "TRANSLOG",
			Quantity:  "3",
			Info:      testhelpers.Info(fmt.Sprintf("%06d", 200000+i%loads), fmt.Sprintf("%d,%03d", 1+i%3, i%1000)),
		})
		if err := docs.AddDocument(fmt.Sprintf("%05d.xml", i), doc); err != nil {
			b.Fatalf("AddDocument failed: %v", err)
		}
	}
	return docs, testhelpers.DispatchEmail(lines...)
}

func benchmarkRun(b *testing.B, documents, loads, workers int) {
	ctx := context.Background()
	docs, email := setupBatch(b, documents, loads)
	service := NewServiceWithConfig(ServiceConfig{Workers: workers}, zap.NewNop())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := service.Run(ctx, docs, email)
		if err != nil {
			b.Fatalf("Run failed: %v", err)
		}
		if result.LoadCount() != loads {
			b.Fatalf("expected %d loads, got %d", loads, result.LoadCount())
		}
	}
}

func BenchmarkService_SmallBatch(b *testing.B) {
	benchmarkRun(b, 20, 4, 1)
}

func BenchmarkService_LargeBatchSequential(b *testing.B) {
	benchmarkRun(b, 1000, 50, 1)
}

func BenchmarkService_LargeBatchParallel(b *testing.B) {
	benchmarkRun(b, 1000, 50, 8)
}

func BenchmarkAllocationEngine(b *testing.B) {
	volumes := make([]string, 200)
	for i := range volumes {
		volumes[i] = fmt.Sprintf("0.%03d", 100+i)
	}
	engine := NewAllocationEngine()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		load := newLoad(entities.LoadNumber(100001), "98765.43", volumes...)
		engine.Allocate(load)
	}
}
