package main

// RetryDelays exposes retryDelays for testing.
var RetryDelays = retryDelays
