//go:build integration

// Integration tests against a real SurrealDB instance in a container.
package index

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

var testClient *Client
var testContainer testcontainers.Container

func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testClient, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
		Dimension: 4,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testClient.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testClient.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func docFor(db, table string) models.TableCandidate {
	return models.TableCandidate{
		Database: db,
		Table:    table,
		Schema: map[string]models.ColumnInfo{
			"id": {Type: "int", Description: "primary key"},
		},
	}
}

func TestSearchUnpublishedCollection(t *testing.T) {
	ctx := context.Background()

	_, err := testClient.Search(ctx, "_never_scanned", []float32{1, 0, 0, 0}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollectionEmpty))
}

func TestPublishMakesGenerationVisible(t *testing.T) {
	ctx := context.Background()
	collection := "_pub_test"
	defer testClient.Drop(ctx, collection)

	gen, err := testClient.BeginGeneration(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, 1, gen, "first scan populates generation 1")

	require.NoError(t, testClient.Insert(ctx, collection, gen, "orders table",
		[]float32{1, 0, 0, 0}, docFor("shop", "orders")))

	// Still invisible until publish.
	_, err = testClient.Search(ctx, collection, []float32{1, 0, 0, 0}, 5)
	assert.True(t, errors.Is(err, ErrCollectionEmpty))

	require.NoError(t, testClient.Publish(ctx, collection, gen))

	results, err := testClient.Search(ctx, collection, []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "orders", results[0].Table)
	assert.InDelta(t, 1.0, results[0].Score, 0.01, "identical vectors score ~1")
	assert.Equal(t, "int", results[0].Schema["id"].Type, "metadata round-trips")
}

func TestRescanSupersedesGeneration(t *testing.T) {
	ctx := context.Background()
	collection := "_rescan_test"
	defer testClient.Drop(ctx, collection)

	gen1, err := testClient.BeginGeneration(ctx, collection)
	require.NoError(t, err)
	require.NoError(t, testClient.Insert(ctx, collection, gen1, "orders table",
		[]float32{1, 0, 0, 0}, docFor("shop", "orders")))
	require.NoError(t, testClient.Publish(ctx, collection, gen1))

	gen2, err := testClient.BeginGeneration(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, gen1+1, gen2)

	require.NoError(t, testClient.Insert(ctx, collection, gen2, "customers table",
		[]float32{0, 1, 0, 0}, docFor("shop", "customers")))

	// Readers keep resolving the old generation until publish.
	results, err := testClient.Search(ctx, collection, []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "orders", results[0].Table)

	require.NoError(t, testClient.Publish(ctx, collection, gen2))

	results, err = testClient.Search(ctx, collection, []float32{0, 1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1, "superseded generation is pruned")
	assert.Equal(t, "customers", results[0].Table)
}

func TestAbortDiscardsGeneration(t *testing.T) {
	ctx := context.Background()
	collection := "_abort_test"
	defer testClient.Drop(ctx, collection)

	gen, err := testClient.BeginGeneration(ctx, collection)
	require.NoError(t, err)
	require.NoError(t, testClient.Insert(ctx, collection, gen, "orders table",
		[]float32{1, 0, 0, 0}, docFor("shop", "orders")))
	require.NoError(t, testClient.Abort(ctx, collection, gen))

	_, err = testClient.Search(ctx, collection, []float32{1, 0, 0, 0}, 5)
	assert.True(t, errors.Is(err, ErrCollectionEmpty))
}

func TestSearchRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	collection := "_rank_test"
	defer testClient.Drop(ctx, collection)

	gen, err := testClient.BeginGeneration(ctx, collection)
	require.NoError(t, err)
	require.NoError(t, testClient.Insert(ctx, collection, gen, "orders",
		[]float32{1, 0, 0, 0}, docFor("shop", "orders")))
	require.NoError(t, testClient.Insert(ctx, collection, gen, "customers",
		[]float32{0.7, 0.7, 0, 0}, docFor("shop", "customers")))
	require.NoError(t, testClient.Insert(ctx, collection, gen, "audit",
		[]float32{0, 0, 1, 0}, docFor("shop", "audit")))
	require.NoError(t, testClient.Publish(ctx, collection, gen))

	results, err := testClient.Search(ctx, collection, []float32{1, 0, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "orders", results[0].Table)
	assert.Equal(t, "customers", results[1].Table)
	assert.True(t, results[0].Score > results[1].Score)
	assert.True(t, results[1].Score > results[2].Score)
}
