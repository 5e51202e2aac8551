package sidecar

// DefaultTemplate serves the original pickled artifacts from a Python child
// process. It is rendered with the artifact directory, address and port.
const DefaultTemplate = `
import json
import os
import pickle

import numpy as np

from http.server import BaseHTTPRequestHandler, HTTPServer

################################################################################

def load(name):
  with open(os.path.join({{ printf "%q" .Pat }}, name), "rb") as f:
    return pickle.load(f)

SCALER = load("scaler.pkl")
LABELS = load("label_encoder.pkl")
MODEL = load("fertilizer_recommendation_model.pkl")

try:
  ENCODERS = load("feature_encoders.pkl")
except Exception:
  ENCODERS = None

################################################################################

def encode(req):
  if ENCODERS is None:
    raise ValueError("feature encoders not loaded")
  soil = ENCODERS["Soil Type"].transform([req["soil"]])[0]
  crop = ENCODERS["Crop Type"].transform([req["crop"]])[0]
  return {"soil": int(soil), "crop": int(crop)}

def predict(req):
  x = np.array([req["features"]], dtype=float)
  y = MODEL.predict(SCALER.transform(x))
  return {"label": str(LABELS.inverse_transform(y)[0])}

################################################################################

class S(BaseHTTPRequestHandler):
    def _send(self, code, body, kind="application/json"):
        self.send_response(code)
        self.send_header('Content-type', kind)
        self.end_headers()
        self.wfile.write(body.encode("utf-8"))

    def do_GET(self):
        if self.path == "/labels":
            self._send(200, json.dumps([str(c) for c in LABELS.classes_]))
            return
        self._send(200, "OK\n", "text/plain")

    def do_POST(self):
        con_len = int(self.headers.get('Content-Length'))
        req_bod = json.loads(self.rfile.read(con_len).decode('utf-8'))

        route = {"/encode": encode, "/predict": predict}.get(self.path)
        if route is None:
            self._send(404, json.dumps({"error": "not found"}))
            return

        try:
            self._send(200, json.dumps(route(req_bod)))
        except Exception as e:
            self._send(422, json.dumps({"error": str(e)}))

    def log_message(self, format, *args):
        return

################################################################################

def run(server_class=HTTPServer, handler_class=S, addr={{ printf "%q" .Add }}, port={{ .Por }}):
    httpd = server_class((addr, port), handler_class)
    print('Starting model sidecar')

    try:
        httpd.serve_forever()
    except KeyboardInterrupt:
        pass

    httpd.server_close()
    print('Stopping model sidecar')

################################################################################

run()
`
