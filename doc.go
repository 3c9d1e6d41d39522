// Retail Copilot - Deterministic Question Answering over Retail Data
//
// Retail Copilot answers analytical questions about a Northwind-style retail
// dataset by combining keyword document retrieval with templated SQL
// aggregation. The pipeline is fully deterministic: identical inputs always
// produce byte-identical outputs, which makes batch runs reproducible and
// diffable.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/retailcopilot
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/retailcopilot/agent"
//		"github.com/smallnest/retailcopilot/rag/loader"
//		"github.com/smallnest/retailcopilot/store/sqlite"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		st, _ := sqlite.Open("data/northwind.sqlite")
//		defer st.Close()
//
//		corpus, _ := loader.NewMarkdownDirLoader("docs").Load(ctx)
//		a, _ := agent.New(ctx, st, corpus)
//
//		result, _ := a.Answer(ctx, agent.Question{
//			ID:   "q1_sql_top3_products_by_revenue_alltime",
//			Text: "What are the top 3 products by total revenue all-time?",
//		})
//		fmt.Println(result.FinalAnswer)
//	}
//
// # Pipeline Stages
//
// Every question flows through six stages wired as a state graph:
//
//   - Route: classify the question as document-only, SQL-only or hybrid
//   - Retrieve: rank policy and calendar chunks with BM25
//   - Plan: extract date ranges, categories and the target metric
//   - Generate: select a SQL query from a closed template library
//   - Execute: run the query with bounded textual repair on failure
//   - Synthesize: shape the typed answer and assemble citations
//
// Document-only questions skip generation and execution entirely.
//
// # Package Structure
//
// graph/
// The sequential state-graph engine driving the pipeline
//
// agent/
// Router, planner, SQL generator, executor and synthesizer
//
// rag/
// Document loading, chunking and BM25 retrieval
//
// store/
// Relational store implementations (SQLite and PostgreSQL)
//
// batch/
// JSONL batch reading, concurrent execution and writing
//
// log/
// Simple leveled logging utilities
//
// # Batch Runs
//
// The retail-copilot command answers a JSONL file of questions:
//
//	retail-copilot --batch questions.jsonl --out outputs.jsonl \
//		--docs docs --db data/northwind.sqlite
//
// Each output line carries the question id, the typed final answer, the
// executed SQL (empty for document-only questions), a confidence score, a
// short explanation and the citations backing the answer.
//
// # License
//
// This project is licensed under the MIT License - see the LICENSE file for details.
package retailcopilot // import "github.com/smallnest/retailcopilot"
