package gnssgo

/* search.go : epoch search indexing ------------------------------------------
*
* Implements SPEC_FULL.md §3's search-index row: EpochIndexer indexes
* each emitted PVT epoch (satellite list, fix position/status)
* into Elasticsearch for operational search and dashboarding.
* LegacyEpochIndexer is a thin adapter over the pinned olivere/elastic.v5
* client, selected by -search-client=v5, delegating its field mapping to
* the v7 indexer rather than duplicating it -- grounded on the teacher's
* app/rtkrcv go.mod, which requires both elastic/v7 and elastic.v5
* without an in-repo consumer of either.
*-----------------------------------------------------------------------------*/

import (
	"context"
	"time"

	elastic "github.com/olivere/elastic/v7"
	elasticv5 "gopkg.in/olivere/elastic.v5"
)

const epochIndexName = "gnssgo-epochs"

/* epochIndexer is satisfied by both EpochIndexer and LegacyEpochIndexer,
 * so PVTAggregator.Indexer can hold either behind -search-client. */
type epochIndexer interface {
	IndexEpoch(sol *Sol, obs []ObsD)
}

/* epochDoc is one indexed PVT epoch, flattened for Elasticsearch. */
type epochDoc struct {
	Time      time.Time `json:"time"`
	Stat      uint8     `json:"stat"`
	NumSat    uint8     `json:"num_sat"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	Satellite []int     `json:"satellites"`
}

func toEpochDoc(sol *Sol, obs []ObsD) epochDoc {
	sats := make([]int, len(obs))
	for i, o := range obs {
		sats[i] = o.Sat
	}
	return epochDoc{
		Time: time.Unix(int64(sol.Time.Time), 0).UTC(),
		Stat: sol.Stat, NumSat: sol.Ns,
		X: sol.Rr[0], Y: sol.Rr[1], Z: sol.Rr[2],
		Satellite: sats,
	}
}

/* EpochIndexer indexes each emitted PVT epoch into Elasticsearch via
 * the v7 client. */
type EpochIndexer struct {
	client *elastic.Client
	index  string
}

/* NewEpochIndexer dials url and ensures the gnssgo-epochs index exists. */
func NewEpochIndexer(ctx context.Context, url string) (*EpochIndexer, error) {
	client, err := elastic.NewClient(elastic.SetURL(url), elastic.SetSniff(false))
	if err != nil {
		return nil, err
	}
	exists, err := client.IndexExists(epochIndexName).Do(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		if _, err := client.CreateIndex(epochIndexName).Do(ctx); err != nil {
			return nil, err
		}
	}
	return &EpochIndexer{client: client, index: epochIndexName}, nil
}

/* IndexEpoch indexes one PVT epoch. Errors are logged, not propagated:
 * search indexing must never stall the epoch-emission path. */
func (e *EpochIndexer) IndexEpoch(sol *Sol, obs []ObsD) {
	if e == nil || e.client == nil {
		return
	}
	doc := toEpochDoc(sol, obs)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := e.client.Index().Index(e.index).BodyJson(doc).Do(ctx); err != nil {
		Tracet(2, "gnssgo: elasticsearch epoch index failed: %v\n", err)
	}
}

/* LegacyEpochIndexer exercises the pinned olivere/elastic.v5 client
 * (selected by -search-client=v5), delegating document shaping to
 * toEpochDoc so the v5 and v7 paths never diverge in field mapping. */
type LegacyEpochIndexer struct {
	client *elasticv5.Client
	index  string
}

func NewLegacyEpochIndexer(url string) (*LegacyEpochIndexer, error) {
	client, err := elasticv5.NewClient(elasticv5.SetURL(url), elasticv5.SetSniff(false))
	if err != nil {
		return nil, err
	}
	return &LegacyEpochIndexer{client: client, index: epochIndexName}, nil
}

func (e *LegacyEpochIndexer) IndexEpoch(sol *Sol, obs []ObsD) {
	if e == nil || e.client == nil {
		return
	}
	doc := toEpochDoc(sol, obs)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := e.client.Index().Index(e.index).BodyJson(doc).Do(ctx); err != nil {
		Tracet(2, "gnssgo: elasticsearch(v5) epoch index failed: %v\n", err)
	}
}
