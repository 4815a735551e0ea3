package probe

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoPinger is satisfied by *mongo.Client.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Mongo pings the sink database. A nil readPref means readpref.Primary.
func Mongo(client MongoPinger, readPref *readpref.ReadPref) Func {
	if readPref == nil {
		readPref = readpref.Primary()
	}
	return func(ctx context.Context) error {
		if client == nil {
			return fail("mongo", errNilCheck)
		}
		if err := client.Ping(orBackground(ctx), readPref); err != nil {
			return fail("mongo", err)
		}
		return nil
	}
}
