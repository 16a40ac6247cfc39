// Package signals implements lexical signal classification of learner
// utterances.
//
// # Overview
//
// A precompiled, immutable Catalog groups phrase sets and regular
// expressions into signal categories (delegation, frustration, confusion,
// etc.). The Classifier normalizes input text and matches it against the
// catalog, producing a multi-label SignalSet and a heuristic confidence.
//
// Classification is a pure function of its input: the catalog is built once
// at startup and is safe for concurrent reads, so classifiers across
// sessions can share a single instance.
//
// # Usage
//
//	catalog, err := signals.NewCatalog(signals.DefaultCatalogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	classifier := signals.NewClassifier(catalog)
//	set, confidence := classifier.Classify("dame el código completo")
//	if set.Has(signals.CategoryDelegation) {
//	    // learner asked for a complete solution
//	}
package signals
