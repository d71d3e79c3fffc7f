package main

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"truthcheck-backend/internal/bootstrap"
	"truthcheck-backend/internal/engine"
	"truthcheck-backend/internal/queue"
	"truthcheck-backend/internal/reports"
	"truthcheck-backend/internal/submissions"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	_ = ctx
	_ = params
	_ = optFns
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	_ = ctx
	_ = optFns
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type okEngine struct{}

func (okEngine) Analyze(ctx context.Context, in engine.Input) (reports.Draft, error) {
	_ = ctx
	_ = in
	return reports.Draft{Verdict: "true", Score: 90, Summary: "checks out"}, nil
}

func testApp(t *testing.T) (*bootstrap.App, *submissions.MemoryRepo) {
	t.Helper()
	repo := submissions.NewMemoryRepo()
	svc := &submissions.Service{
		Repo:    repo,
		Reports: reports.NewMemoryRepo(),
		Engine:  okEngine{},
	}
	return &bootstrap.App{SubmissionsService: svc}, repo
}

func analyzingSubmission(t *testing.T, repo *submissions.MemoryRepo, id string) {
	t.Helper()
	payload, err := submissions.NormalizePayload(submissions.ModalityText, submissions.RawInput{Text: "claim under test"})
	if err != nil {
		t.Fatalf("normalize payload: %v", err)
	}
	sub := submissions.Submission{
		ID:        id,
		UserID:    "user-1",
		Payload:   payload,
		Status:    submissions.StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), sub); err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if _, err := repo.MarkAnalyzing(context.Background(), id, time.Now().UTC()); err != nil {
		t.Fatalf("mark analyzing: %v", err)
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	app, repo := testApp(t)
	analyzingSubmission(t, repo, "submission-1")

	msgBody, _ := queue.EncodeMessage(queue.Message{SubmissionID: "submission-1", RequestID: "req-1"})
	msg := sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String(string(msgBody)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	got, err := repo.GetByID(context.Background(), "submission-1")
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if got.Status != submissions.StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", got.Status)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	app, _ := testApp(t)

	msgBody, _ := queue.EncodeMessage(queue.Message{SubmissionID: "missing", RequestID: "req-2"})
	msg := sqstypes.Message{
		MessageId:     aws.String("m2"),
		ReceiptHandle: aws.String("r2"),
		Body:          aws.String(string(msgBody)),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	app, _ := testApp(t)
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnMissingSubmissionID(t *testing.T) {
	client := &fakeSQS{}
	app, _ := testApp(t)
	msg := sqstypes.Message{
		MessageId:     aws.String("m4"),
		ReceiptHandle: aws.String("r4"),
		Body:          aws.String(`{"requestId":"req-4","version":1}`),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}
