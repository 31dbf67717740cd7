package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/databases"
	"github.com/ceylonexplorer/rental-api/databases/mocks"
	"github.com/ceylonexplorer/rental-api/models"
)

func TestNewVehicleDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	vehicleDB := databases.NewVehicleDatabase(db)

	assert.NotEmpty(t, vehicleDB)
}

func TestVehicleDatabase_FindOne(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Vehicle)
		(*arg).ID = "toyota-axio"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "vehicles").
		Return(collectionHelper)

	vehicleDB := databases.NewVehicleDatabase(dbHelper)

	vehicle, err := vehicleDB.FindOne(context.Background(), bson.M{"error": true})
	assert.Empty(t, vehicle)
	assert.EqualError(t, err, "mocked-error")

	vehicle, err = vehicleDB.FindOne(context.Background(), bson.M{"error": false})
	assert.Equal(t, &models.Vehicle{ID: "toyota-axio"}, vehicle)
	assert.NoError(t, err)
}

func TestVehicleDatabase_Find(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelperErr databases.CursorHelper
	var cursorHelperCorrect databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelperErr = &mocks.CursorHelper{}
	cursorHelperCorrect = &mocks.CursorHelper{}

	cursorHelperErr.(*mocks.CursorHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	cursorHelperCorrect.(*mocks.CursorHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Vehicle)
		*arg = []models.Vehicle{{ID: "toyota-axio"}}
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": true}).
		Return(cursorHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": false}).
		Return(cursorHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "vehicles").
		Return(collectionHelper)

	vehicleDB := databases.NewVehicleDatabase(dbHelper)

	vehicles, err := vehicleDB.Find(context.Background(), bson.M{"error": true})
	assert.Empty(t, vehicles)
	assert.EqualError(t, err, "mocked-error")

	vehicles, err = vehicleDB.Find(context.Background(), bson.M{"error": false})
	assert.Equal(t, []models.Vehicle{{ID: "toyota-axio"}}, vehicles)
	assert.NoError(t, err)
}
