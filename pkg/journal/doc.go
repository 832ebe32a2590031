// Package journal keeps an append-only sqlite log of every call made to the
// training and prediction services. Trainer and Predictor wrap the real
// collaborators so a session's submissions can be inspected later.
package journal
