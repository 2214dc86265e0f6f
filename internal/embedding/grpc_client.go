package embedding

import (
	"context"
	"fmt"

	embeddingv1 "github.com/facewatch/attendance/gen/go/embedding/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is the gRPC-backed Provider: it dials the standalone embedding
// service described in proto/embedding.proto. Grounded on the media-plane
// client in the teacher repo (internal/media/grpc_client.go) — same shape,
// different service.
type Client struct {
	conn   *grpc.ClientConn
	client embeddingv1.EmbeddingServiceClient
}

// NewClient dials addr. The connection is lazy (grpc.NewClient does not
// block on the initial handshake), so a transient outage at startup does
// not prevent the server from coming up — individual Detect calls surface
// the failure to their caller instead.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to dial provider: %w", err)
	}
	return &Client{
		conn:   conn,
		client: embeddingv1.NewEmbeddingServiceClient(conn),
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Detect implements Provider.
func (c *Client) Detect(ctx context.Context, imageData []byte) ([]Face, error) {
	resp, err := c.client.Detect(ctx, &embeddingv1.DetectRequest{ImageData: imageData})
	if err != nil {
		return nil, fmt.Errorf("embedding: detect rpc failed: %w", err)
	}

	faces := make([]Face, 0, len(resp.Faces))
	for _, f := range resp.Faces {
		emb := make([]float32, len(f.Embedding))
		copy(emb, f.Embedding)
		faces = append(faces, Face{
			BBox: BoundingBox{
				X: f.Bbox.X,
				Y: f.Bbox.Y,
				W: f.Bbox.W,
				H: f.Bbox.H,
			},
			Quality:   f.Quality,
			Embedding: emb,
		})
	}
	return faces, nil
}

// Health reports whether the embedding service considers itself ready.
func (c *Client) Health(ctx context.Context) (bool, string, error) {
	resp, err := c.client.Health(ctx, &embeddingv1.HealthRequest{})
	if err != nil {
		return false, "", err
	}
	return resp.Ok, resp.Status, nil
}
