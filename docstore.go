package gnssgo

/* docstore.go : raw navigation-frame document archive ------------------------
*
* Implements SPEC_FULL.md §3's document-store row: FrameArchive stores
* every post-FEC, pre-extraction decoded frame payload (across all
* signal families, not just the ones pvt.go knows how to bit-parse) as
* a MongoDB document, for offline re-analysis of signal families this
* build's in-core decoders only validate rather than fully parse.
* Grounded on the teacher's app/rtkrcv go.mod, which requires
* go.mongodb.org/mongo-driver without an in-repo consumer of its own.
*-----------------------------------------------------------------------------*/

import (
	"context"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/* frameDoc is one archived decoded-frame document. */
type frameDoc struct {
	Sig      string    `bson:"sig"`
	Prn      int       `bson:"prn"`
	TOW      float64   `bson:"tow"`
	WN       int       `bson:"wn"`
	TOWValid int       `bson:"tow_valid"`
	PayloadH string    `bson:"payload_hex"`
	NBits    int       `bson:"n_bits"`
	StoredAt time.Time `bson:"stored_at"`
}

/* FrameArchive writes every decoded navigation frame to a MongoDB
 * collection, independent of whether this build's nav-data decoder for
 * that signal family performs real bit-level ephemeris extraction
 * (pvt.go's IngestNavFrame only does so for GPS L1CA; every other
 * family's frames are archived here unparsed). */
type FrameArchive struct {
	coll *mongo.Collection
}

/* NewFrameArchive connects to uri and returns a FrameArchive writing
 * into database/frames. */
func NewFrameArchive(ctx context.Context, uri, database string) (*FrameArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &FrameArchive{coll: client.Database(database).Collection("frames")}, nil
}

/* StoreFrame archives one decoded frame. Errors are logged, not
 * propagated, matching navstore.go's SaveEphemeris contract: archival
 * failures must never stall the channel worker loop. */
func (a *FrameArchive) StoreFrame(sig SignalID, prn int, frame *DecodedFrame) {
	if a == nil || a.coll == nil || frame == nil {
		return
	}
	doc := frameDoc{
		Sig: string(sig), Prn: prn, TOW: frame.TOW, WN: frame.WN,
		TOWValid: frame.TOWValid, PayloadH: hex.EncodeToString(frame.Payload),
		NBits: frame.NBits, StoredAt: time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := a.coll.InsertOne(ctx, doc); err != nil {
		Tracet(2, "gnssgo: mongo frame archive write failed: %v\n", err)
	}
}

/* FramesBySatellite returns the most recent n archived frames for one
 * (sig, prn) pair, newest first -- used by offline re-analysis tools,
 * not by the live pipeline. */
func (a *FrameArchive) FramesBySatellite(ctx context.Context, sig SignalID, prn int, n int64) ([]frameDoc, error) {
	filter := bson.M{"sig": string(sig), "prn": prn}
	opts := options.Find().SetSort(bson.D{{Key: "stored_at", Value: -1}}).SetLimit(n)
	cur, err := a.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []frameDoc
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
