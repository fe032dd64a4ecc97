// Package mqtt implements an MQTT integration publishing decoded
// packets as JSON events.
package mqtt

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"text/template"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/rfxtrx/rfxtrx-gateway/internal/config"
	"github.com/rfxtrx/rfxtrx-gateway/internal/integration"
	"github.com/rfxtrx/rfxtrx-gateway/internal/logging"
)

var eventCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "integration_mqtt_event_count",
	Help: "The number of events published by the MQTT integration.",
})

// Integration implements the MQTT integration.
type Integration struct {
	conn               paho.Client
	qos                uint8
	eventTopicTemplate *template.Template
}

// New creates a new MQTT integration.
func New(c config.Config) (integration.Integration, error) {
	conf := c.Integration.MQTT

	i := Integration{
		qos: conf.QOS,
	}

	var err error
	i.eventTopicTemplate, err = template.New("event").Parse(conf.EventTopicTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parse event topic template error")
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(conf.Server)
	opts.SetUsername(conf.Username)
	opts.SetPassword(conf.Password)
	opts.SetClientID(conf.ClientID)
	opts.SetCleanSession(conf.CleanSession)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(conf.MaxReconnectInterval)

	tlsConfig, err := newTLSConfig(conf.CACert, conf.TLSCert, conf.TLSKey)
	if err != nil {
		return nil, errors.Wrap(err, "new tls config error")
	}
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	log.WithField("server", conf.Server).Info("integration/mqtt: connecting to mqtt broker")
	i.conn = paho.NewClient(opts)
	for {
		if token := i.conn.Connect(); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("integration/mqtt: connecting to broker error, will retry in 2s")
			time.Sleep(2 * time.Second)
		} else {
			break
		}
	}

	return &i, nil
}

// PublishEvent publishes the given event.
func (i *Integration) PublishEvent(ctx context.Context, event integration.Event) error {
	topic := bytes.NewBuffer(nil)
	err := i.eventTopicTemplate.Execute(topic, struct {
		PacketType string
		DeviceID   string
	}{
		PacketType: fmt.Sprintf("%02x", event.PacketType),
		DeviceID:   event.DeviceID,
	})
	if err != nil {
		return errors.Wrap(err, "execute event topic template error")
	}

	b, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event error")
	}

	log.WithFields(log.Fields{
		"topic":  topic.String(),
		"ctx_id": ctx.Value(logging.ContextIDKey),
	}).Info("integration/mqtt: publishing event")

	if token := i.conn.Publish(topic.String(), i.qos, false, b); token.Wait() && token.Error() != nil {
		return errors.Wrap(token.Error(), "publish event error")
	}
	eventCounter.Inc()

	return nil
}

// Close closes the integration.
func (i *Integration) Close() error {
	log.Info("integration/mqtt: closing mqtt integration")
	i.conn.Disconnect(250)
	return nil
}

func newTLSConfig(cafile, certFile, certKeyFile string) (*tls.Config, error) {
	if cafile == "" && certFile == "" && certKeyFile == "" {
		return nil, nil
	}

	tlsConfig := &tls.Config{}

	if cafile != "" {
		cacert, err := ioutil.ReadFile(cafile)
		if err != nil {
			return nil, errors.Wrap(err, "read ca certificate error")
		}
		certpool := x509.NewCertPool()
		certpool.AppendCertsFromPEM(cacert)
		tlsConfig.RootCAs = certpool
	}

	if certFile != "" && certKeyFile != "" {
		kp, err := tls.LoadX509KeyPair(certFile, certKeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "load tls key-pair error")
		}
		tlsConfig.Certificates = []tls.Certificate{kp}
	}

	return tlsConfig, nil
}
