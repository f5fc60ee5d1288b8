package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"
)

const searchJobQueue = "search_jobs"

// enqueueSearchJob publishes a job to the shared queue the worker pool
// consumes from.
func enqueueSearchJob(conn *amqp.Connection, job SearchJob) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(searchJobQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return ch.Publish("", searchJobQueue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// runSearchJob executes one queued search end to end: fetch the resume (when
// referenced), run the grounded search, persist whatever came back.
func (a *App) runSearchJob(job SearchJob) error {
	ctx := context.Background()

	if a.Finder == nil {
		return fmt.Errorf("cannot run job %s: GEMINI_API_KEY is not configured", job.ID)
	}

	resumeText := ""
	if job.ResumeObjectKey != "" {
		if a.Config.R2 == nil || a.AwsConfig == nil {
			return fmt.Errorf("job %s references resume %q but object storage is not configured", job.ID, job.ResumeObjectKey)
		}
		awsClient := s3.NewFromConfig(*a.AwsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", a.Config.R2.AccountID))
		})

		fileBytes, err := retryWithBackoff(ctx, 3, func(error) bool { return true }, func() ([]byte, error) {
			return DownloadFromR2(ctx, awsClient, a.Config.R2.Bucket, job.ResumeObjectKey)
		})
		if err != nil {
			return fmt.Errorf("file download error: %w", err)
		}

		resumeText, err = ExtractResumeText(job.ResumeMime, fileBytes)
		if err != nil {
			return fmt.Errorf("text extraction error: %w", err)
		}
	}

	leads, err := a.Finder.SearchLeads(ctx, job.Query, resumeText)
	if err != nil {
		return fmt.Errorf("search error: %w", err)
	}

	a.persistLeads(ctx, leads)
	return nil
}

func (a *App) consumeWorker(id int, wg *sync.WaitGroup) {
	defer wg.Done()

	conn, err := amqp.Dial(a.Config.RabbitMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error opening rabbitmq channel: " + err.Error())
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		searchJobQueue, // queue name
		true,           // durable (survives broker restarts)
		false,          // auto-delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(
		searchJobQueue, // queue name
		"",             // consumer tag
		true,           // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		var job SearchJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Printf("worker %d: error unmarshalling message body: %v", id+1, err)
			continue
		}
		log.Printf("worker %d processing search job %s (query: %q)", id+1, job.ID, job.Query)

		if err := publishJobUpdate(a.RabbitConn, job.ID.String(), "processing", "search started"); err != nil {
			log.Println("failed to publish update:", err)
		}

		if err := a.runSearchJob(job); err != nil {
			log.Printf("worker %d: search job %s failed: %v", id+1, job.ID, err)
			if err := publishJobUpdate(a.RabbitConn, job.ID.String(), "failed", "search failed"); err != nil {
				log.Println("failed to publish update:", err)
			}
			continue
		}

		if err := publishJobUpdate(a.RabbitConn, job.ID.String(), "completed", "search completed"); err != nil {
			log.Println("failed to publish update:", err)
		}
	}
}

// StartConsumerWorkerPool blocks until all workers exit.
func (a *App) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker", i+1, "started")
		go a.consumeWorker(i, &wg)
	}
	wg.Wait()
}
