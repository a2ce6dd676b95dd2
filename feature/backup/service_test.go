package backup

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"msc/core/storage"
	"msc/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(client storage.Client) *Service {
	svc := NewService(client, storage.Config{Bucket: "backups", Prefix: "/settings/", TimeoutSeconds: 5}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600)) }
	svc.newID = func() string { return "0b6c1f2e" }
	return svc
}

func TestService_Archive(t *testing.T) {
	t.Run("UploadsPreviousContent", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "backups").Return(true, nil)

		var uploaded []byte
		client.On("PutObject", mock.Anything, "backups", "settings/survival/20261016T073000Z-0b6c1f2e-server.properties",
			mock.Anything, int64(9), mock.Anything).
			Run(func(args mock.Arguments) {
				data, err := io.ReadAll(args.Get(3).(io.Reader))
				require.NoError(t, err)
				uploaded = data
			}).
			Return(minio.UploadInfo{}, nil)

		err := newTestService(client).Archive(context.Background(), "/srv/survival", "server.properties", []byte("pvp=true\n"))
		require.NoError(t, err)
		assert.Equal(t, "pvp=true\n", string(uploaded))
		client.AssertExpectations(t)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "backups").Return(false, nil)

		err := newTestService(client).Archive(context.Background(), "/srv/survival", "server.properties", nil)
		assert.ErrorIs(t, err, ErrNoBucket)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnreachableStorage", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "backups").Return(false, errors.New("connection refused"))

		err := newTestService(client).Archive(context.Background(), "/srv/survival", "server.properties", nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoBucket)
	})

	t.Run("UploadFailure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("access denied"))

		err := newTestService(client).Archive(context.Background(), "/srv/survival", "server.properties", []byte("x"))
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestService_List(t *testing.T) {
	t.Run("SortsOldestFirst", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "settings/survival/20261016T073000Z-b-server.properties", Size: 20}
		ch <- minio.ObjectInfo{Key: "settings/survival/20261001T120000Z-a-server.properties", Size: 10}
		close(ch)
		client.On("ListObjects", mock.Anything, "backups", minio.ListObjectsOptions{Prefix: "settings/survival/", Recursive: true}).
			Return((<-chan minio.ObjectInfo)(ch))

		backups, err := newTestService(client).List(context.Background(), "/srv/survival/")
		require.NoError(t, err)
		require.Len(t, backups, 2)
		assert.Equal(t, "settings/survival/20261001T120000Z-a-server.properties", backups[0].Key)
		assert.Equal(t, int64(20), backups[1].Size)
	})

	t.Run("ListingError", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("no such bucket")}
		close(ch)
		client.On("ListObjects", mock.Anything, "backups", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := newTestService(client).List(context.Background(), "/srv/survival")
		assert.ErrorContains(t, err, "no such bucket")
	})
}

func TestService_DirPrefix(t *testing.T) {
	svc := newTestService(new(mocks.Client))
	assert.Equal(t, "settings/survival/", svc.dirPrefix("/srv/survival"))
	assert.Equal(t, "settings/root/", svc.dirPrefix("/"))

	svc.prefix = ""
	assert.Equal(t, "survival/", svc.dirPrefix("survival"))
}
