package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function",
	}

	cmd.AddCommand(
		withSetup(cmdLambdaEvent()),
		withSetup(cmdLambdaHTTP()),
	)
	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}

// cmdLambdaEvent runs the lambda for raw event invocations.
func cmdLambdaEvent() *cobra.Command {
	return &cobra.Command{
		Use:   "event",
		Short: "Handle raw events, e.g. from EventBridge rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Info("lambda starting...")
			lambda.StartWithOptions(echoRuntime.LambdaForEvent,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}
}

// cmdLambdaHTTP runs the lambda behind an HTTP trigger.
func cmdLambdaHTTP() *cobra.Command {
	return &cobra.Command{
		Use:   "http",
		Short: "Handle events posted through API Gateway or a function URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Info("lambda starting...", "payloadType", echoRuntime.PayloadType())
			lambda.StartWithOptions(echoRuntime.Lambda,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}
}

func withSetup(cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = setup
	return cmd
}
